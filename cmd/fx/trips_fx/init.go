package trips_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"tripchat/internal/api/controllers"
	"tripchat/internal/repositories"
	"tripchat/internal/services"
)

var Module = fx.Provide(
	provideTripRepo,
	provideTripService,
	provideTripsController)

func provideTripRepo(db *gorm.DB) repositories.TripRepository {
	return repositories.NewTripRepository(db)
}

func provideTripService(tripRepo repositories.TripRepository) services.TripServiceInterface {
	return services.NewTripService(tripRepo)
}

func provideTripsController(tripService services.TripServiceInterface) *controllers.TripsController {
	return controllers.NewTripsController(tripService)
}
