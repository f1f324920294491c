//go:build sqlite

package epilog

func newSQLiteStore(path string) (Store, error) {
	return NewSQLiteStore(path), nil
}
