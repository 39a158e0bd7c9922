package jwtx

// Signer issues session tokens.
type Signer interface {
	Sign(Payload) (string, error)
}
