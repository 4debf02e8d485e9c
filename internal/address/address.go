package address

// Binding associates a shipping address with a submitted cart. At most
// one binding exists per cart; a resave replaces the prior value.
type Binding struct {
	CartID  string `json:"cartId"`
	UserID  int    `json:"userId"`
	Address string `json:"address"`
	SavedAt string `json:"savedAt"`
}
