// Package session persists the active principal in durable client-local storage.
package session

import (
	"encoding/json"

	"github.com/pkg/errors"

	"storerating/internal/domain/entity"
	"storerating/internal/domain/repository"
	"storerating/internal/domain/service"
	"storerating/internal/infra/auth"
)

// jsonCodec writes the snapshot as plain JSON. It is used when no signing key is configured.
type jsonCodec struct{}

// NewJSONCodec returns the unsigned snapshot codec.
func NewJSONCodec() service.SessionCodec {
	return jsonCodec{}
}

func (jsonCodec) Encode(principal *entity.Principal) ([]byte, error) {
	data, err := json.Marshal(auth.NewSessionSnapshot(principal))
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode session snapshot")
	}

	return data, nil
}

func (jsonCodec) Decode(data []byte) (*entity.Principal, error) {
	var snapshot auth.SessionSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, errors.Wrapf(repository.ErrSessionCorrupt, "invalid session json: %v", err)
	}

	return snapshot.Principal()
}
