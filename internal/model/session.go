package model

// Session is the local record of the signing-provider connection.
// Address is populated only while Connected is true.
type Session struct {
	Connected  bool   `json:"connected"`
	Connecting bool   `json:"connecting"`
	Address    string `json:"address,omitempty"`
}
