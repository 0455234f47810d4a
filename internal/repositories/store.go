package repositories

import "database/sql"

// MySQLStore bundles the MySQL repositories behind the contract the services consume.
type MySQLStore struct {
	ThingRepository
	OfferRepository
	PersonRepository
	ParticipationRepository
	StoreOrderRepository
}

func NewMySQLStore(db *sql.DB) MySQLStore {
	return MySQLStore{
		ThingRepository:         ThingRepository{DB: db},
		OfferRepository:         OfferRepository{DB: db},
		PersonRepository:        PersonRepository{DB: db},
		ParticipationRepository: ParticipationRepository{DB: db},
		StoreOrderRepository:    StoreOrderRepository{DB: db},
	}
}
