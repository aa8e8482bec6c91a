package handlers

import (
	"github.com/Gulverda/C-Final-Web-Store/database"
	"github.com/Gulverda/C-Final-Web-Store/services"
)

var (
	DB       *database.DB
	Cart     *services.CartService
	Checkout *services.CheckoutService
)

// InitializeHandlers wires the handler package to the database and builds
// the cart and checkout services on top of it. The cart store lives for the
// whole process; carts do not survive a restart.
func InitializeHandlers(db *database.DB) {
	DB = db
	store := services.NewCartStore()
	Cart = services.NewCartService(store, db)
	Checkout = services.NewCheckoutService(Cart, db)
}
