package types

// Payload is the content a sender places inside a packet envelope.
type Payload struct {
	SenderUsername Username
	Message        string
	AttachmentName string
	Attachment     []byte
	MimeType       string
}

// Packet is the decoded wire artifact exchanged between peers.
type Packet struct {
	SenderKeyID KeyID
	WrappedKey  []byte
	Signature   []byte
	Ciphertext  []byte
}

// Opened is a packet that decrypted and verified successfully.
type Opened struct {
	SenderKeyID KeyID
	Payload
}

// SealRequest names a recipient and the payload to seal for them.
type SealRequest struct {
	Recipient KeyID
	Payload
}
