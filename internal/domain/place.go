package domain

type Place struct {
	ID          string
	Title       string
	Description string
	Price       float64
	Latitude    *float64
	Longitude   *float64
	Owner       *Owner
	Amenities   []string
}

type Owner struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
}

type User struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	IsAdmin   bool
}
