package repo

import (
	"errors"

	"github.com/Skotchmaster/gamestore/internal/models"
	"github.com/Skotchmaster/gamestore/internal/store/filestore"
)

// FileRepo keeps users, products, cart items and order lines as JSON arrays
// under one directory.
type FileRepo struct {
	users    *filestore.Collection[models.User]
	products *filestore.Collection[models.Product]
	carts    *filestore.Collection[models.CartItem]
	orders   *filestore.Collection[models.OrderLine]
}

func NewFileRepo(dir string) *FileRepo {
	return &FileRepo{
		users:    filestore.New(dir, "users", func(u models.User) string { return u.ID }),
		products: filestore.New(dir, "products", func(p models.Product) string { return p.ID }),
		carts:    filestore.New(dir, "carts", func(c models.CartItem) string { return c.ID }),
		orders:   filestore.New(dir, "orders", func(o models.OrderLine) string { return o.ID }),
	}
}

func fileErr(err error) error {
	if errors.Is(err, filestore.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
