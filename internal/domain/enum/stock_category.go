package enum

import "database/sql/driver"

// StockCategory classifies a stock item. Oil items are tracked by volume
// (gallons plus a partially dispensed open gallon); filter items are
// tracked as plain unit counts.
type StockCategory string

const (
	CategoryOil       StockCategory = "oil"
	CategoryOilFilter StockCategory = "oil-filter"
	CategoryAirFilter StockCategory = "air-filter"
	CategoryACFilter  StockCategory = "ac-filter"
)

// Valid reports whether the category is one of the known values.
func (c StockCategory) Valid() bool {
	switch c {
	case CategoryOil, CategoryOilFilter, CategoryAirFilter, CategoryACFilter:
		return true
	}
	return false
}

// IsOil reports whether the category uses litre/gallon volume tracking.
func (c StockCategory) IsOil() bool {
	return c == CategoryOil
}

func (c StockCategory) String() string {
	return string(c)
}

func (c StockCategory) Value() (driver.Value, error) {
	return string(c), nil
}

func (c *StockCategory) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*c = StockCategory(v)
	case []byte:
		*c = StockCategory(v)
	}
	return nil
}
