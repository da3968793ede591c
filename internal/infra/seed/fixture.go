// Package seed populates the directory with the demo principals, stores and ratings.
package seed

import (
	"os"
	"path/filepath"

	"storerating/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

// namespace derives stable IDs from fixture keys, so a restored session still
// points at the same seeded principal after a restart of the memory driver.
var namespace = uuid.MustParse("5f0d3a8e-9d8e-4b7e-9a55-3c6f1b1e2d40")

// Fixture is the YAML layout of the demo directory.
type Fixture struct {
	Password   string             `koanf:"password"`
	Principals []PrincipalFixture `koanf:"principals"`
	Stores     []StoreFixture     `koanf:"stores"`
	Ratings    []RatingFixture    `koanf:"ratings"`
}

type PrincipalFixture struct {
	Key     string      `koanf:"key"`
	Name    string      `koanf:"name"`
	Email   string      `koanf:"email"`
	Address string      `koanf:"address"`
	Role    entity.Role `koanf:"role"`
}

type StoreFixture struct {
	Key     string `koanf:"key"`
	Owner   string `koanf:"owner"`
	Name    string `koanf:"name"`
	Email   string `koanf:"email"`
	Address string `koanf:"address"`
}

type RatingFixture struct {
	User  string `koanf:"user"`
	Store string `koanf:"store"`
	Value int    `koanf:"value"`
}

// PrincipalID is the stable ID of the principal with the given fixture key.
func PrincipalID(key string) uuid.UUID {
	return uuid.NewSHA1(namespace, []byte("principal/"+key))
}

// StoreID is the stable ID of the store with the given fixture key.
func StoreID(key string) uuid.UUID {
	return uuid.NewSHA1(namespace, []byte("store/"+key))
}

// LoadFixture reads a fixture file. Relative paths are also tried one and two
// directories up, the way config files are searched.
func LoadFixture(path string) (*Fixture, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return nil, err
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(resolved), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read seed fixture %s failed", resolved)
	}

	fixture := new(Fixture)
	if err := k.Unmarshal("", fixture); err != nil {
		return nil, errors.Wrapf(err, "unmarshal seed fixture %s failed", resolved)
	}

	if err := fixture.validate(); err != nil {
		return nil, err
	}

	return fixture, nil
}

func resolvePath(path string) (string, error) {
	candidates := []string{path}
	if !filepath.IsAbs(path) {
		candidates = append(candidates, filepath.Join("..", path), filepath.Join("..", "..", path))
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", errors.Errorf("seed fixture %s not found", path)
}

// validate checks that every reference resolves to a declared key.
func (f *Fixture) validate() error {
	principals := make(map[string]entity.Role, len(f.Principals))
	for _, p := range f.Principals {
		if p.Key == "" {
			return errors.Errorf("seed principal %q has no key", p.Email)
		}
		if _, dup := principals[p.Key]; dup {
			return errors.Errorf("seed principal key %q is declared twice", p.Key)
		}
		principals[p.Key] = p.Role
	}

	stores := make(map[string]struct{}, len(f.Stores))
	for _, s := range f.Stores {
		if _, ok := principals[s.Owner]; !ok {
			return errors.Errorf("seed store %q references unknown owner %q", s.Key, s.Owner)
		}
		if _, dup := stores[s.Key]; dup {
			return errors.Errorf("seed store key %q is declared twice", s.Key)
		}
		stores[s.Key] = struct{}{}
	}

	for _, r := range f.Ratings {
		if _, ok := principals[r.User]; !ok {
			return errors.Errorf("seed rating references unknown user %q", r.User)
		}
		if _, ok := stores[r.Store]; !ok {
			return errors.Errorf("seed rating references unknown store %q", r.Store)
		}
	}

	return nil
}
