package cli

import (
	"fmt"

	"github.com/regloapp/reglo/internal/storage"
)

// openStore opens the SQLite-backed KV store named by the global --store
// flag. The returned closer must be called when the command finishes.
func openStore(opts *RootOptions) (*storage.Store, func(), error) {
	backend, err := storage.OpenSQLite(opts.StorePath)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, fmt.Sprintf("opening store %s", opts.StorePath), err)
	}
	return storage.NewStore(backend), func() { _ = backend.Close() }, nil
}
