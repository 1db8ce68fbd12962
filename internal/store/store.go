package store

import "github.com/martpos/martpos/internal/domain"

// Store aggregates the entity collections and the settings singleton.
// It is passed by reference to every service; nothing holds a collection
// privately.
type Store struct {
	Users        *Collection[domain.User]
	Products     *Collection[domain.Product]
	Companies    *Collection[domain.Company]
	Invoices     *Collection[domain.Invoice]
	Transactions *Collection[domain.Transaction]
	Settings     *Singleton[domain.Settings]
}

// New returns a Store with empty collections and default settings.
func New() *Store {
	return &Store{
		Users:        NewCollection[domain.User](),
		Products:     NewCollection[domain.Product](),
		Companies:    NewCollection[domain.Company](),
		Invoices:     NewCollection[domain.Invoice](),
		Transactions: NewCollection[domain.Transaction](),
		Settings:     NewSingleton(domain.DefaultSettings()),
	}
}
