package model

// GenerateRequest represents a password generation request.
// Pointer bools allow distinguishing between missing (nil -> default) and explicit false.
type GenerateRequest struct {
	Length         int   `json:"length"`
	Lowercase      *bool `json:"lowercase"`
	Uppercase      *bool `json:"uppercase"`
	Numbers        *bool `json:"numbers"`
	Symbols        *bool `json:"symbols"`
	AvoidAmbiguous *bool `json:"avoid_ambiguous"`
}

// GenerateResponse represents a password generation response.
// Entropy is "system" or "fallback".
type GenerateResponse struct {
	Password string `json:"password"`
	Length   int    `json:"length"`
	Entropy  string `json:"entropy"`
}
