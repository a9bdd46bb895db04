package profile

import (
	"time"

	"github.com/regloapp/reglo/internal/storage"
)

// Clock supplies wall time for UpdatedAt stamps.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Store persists client profiles on the KV surface.
type Store struct {
	kv    *storage.Store
	clock Clock
}

// NewStore creates a profile store over kv using the system clock.
func NewStore(kv *storage.Store) *Store {
	return &Store{kv: kv, clock: systemClock{}}
}

// NewStoreWithClock creates a profile store with an injected clock.
func NewStoreWithClock(kv *storage.Store, clock Clock) *Store {
	return &Store{kv: kv, clock: clock}
}

// Load returns the profile for scope, or the default profile when no
// usable document exists.
//
// "Usable" means: the read succeeded, the document decoded, its clientId
// matches the requested scope, and it passes schema validation. A document
// persisted for a different scope under this key is treated as not found,
// not as corruption escalated to the caller.
func (s *Store) Load(scope string) ClientProfile {
	var p ClientProfile
	res := s.kv.ReadJSON(storage.ProfileKey(scope), &p)
	if !res.OK || !res.Found {
		return Default(scope, s.clock.Now())
	}
	if p.ClientID != scope {
		return Default(scope, s.clock.Now())
	}
	if err := Validate(p); err != nil {
		return Default(scope, s.clock.Now())
	}
	return p
}

// Save stamps UpdatedAt and persists the profile under its own scope.
func (s *Store) Save(p ClientProfile) storage.WriteResult {
	p.UpdatedAt = s.clock.Now().UTC().Format(time.RFC3339)
	return s.kv.WriteJSON(storage.ProfileKey(p.ClientID), p)
}

// Reset overwrites the scope's profile with the default and returns it
// alongside the write result.
func (s *Store) Reset(scope string) (ClientProfile, storage.WriteResult) {
	fresh := Default(scope, s.clock.Now())
	return fresh, s.Save(fresh)
}
