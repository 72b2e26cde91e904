package generator

import "fmt"

// VerificationError reports a generated symbol that does not read back as
// its payload.
type VerificationError struct {
	Payload string
	Decoded string
	Err     error
}

func (e *VerificationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generated QR code is not decodable: %v", e.Err)
	}
	return fmt.Sprintf("generated QR code decodes to %q, want %q", e.Decoded, e.Payload)
}

func (e *VerificationError) Unwrap() error { return e.Err }
