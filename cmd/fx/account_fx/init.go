package account_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"tripchat/internal/api/controllers"
	"tripchat/internal/repositories"
	"tripchat/internal/services"
)

var Module = fx.Provide(
	provideAccountRepo,
	provideAccountService,
	provideAccountController)

func provideAccountRepo(db *gorm.DB) repositories.AccountRepository {
	return repositories.NewAccountRepository(db)
}

func provideAccountService(accountRepo repositories.AccountRepository) services.AccountServiceInterface {
	return services.NewAccountService(accountRepo)
}

func provideAccountController(accountService services.AccountServiceInterface) *controllers.AccountController {
	return controllers.NewAccountController(accountService)
}
