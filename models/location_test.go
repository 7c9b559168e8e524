package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCityServesRoute(t *testing.T) {
	countryID := primitive.NewObjectID()
	city := City{
		ID:        primitive.NewObjectID(),
		CountryID: countryID,
		Name:      "Lagos",
		IsActive:  true,
	}

	assert.True(t, CityServesRoute(city, countryID))
}

func TestCityServesRouteRejectsDeactivatedCity(t *testing.T) {
	countryID := primitive.NewObjectID()
	city := City{
		ID:        primitive.NewObjectID(),
		CountryID: countryID,
		Name:      "Ibadan",
		IsActive:  false,
	}

	// A city that was deactivated after rates were created must drop out
	// of quoting even though city-specific rates still reference it.
	assert.False(t, CityServesRoute(city, countryID))
}

func TestCityServesRouteRejectsWrongCountry(t *testing.T) {
	city := City{
		ID:        primitive.NewObjectID(),
		CountryID: primitive.NewObjectID(),
		Name:      "Accra",
		IsActive:  true,
	}

	assert.False(t, CityServesRoute(city, primitive.NewObjectID()))
}
