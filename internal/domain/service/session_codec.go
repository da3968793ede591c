package service

import "storerating/internal/domain/entity"

// SessionCodec turns the active principal into the bytes stored in the session cell and back.
type SessionCodec interface {
	Encode(principal *entity.Principal) ([]byte, error)

	// Decode fails for any payload it cannot parse or verify.
	Decode(data []byte) (*entity.Principal, error)
}
