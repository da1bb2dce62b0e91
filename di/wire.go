//go:build wireinject
// +build wireinject

package di

import (
	"guestroom/config"
	"guestroom/infras/jwt"
	"guestroom/infras/kafka"
	"guestroom/infras/mailer"
	"guestroom/infras/otel"
	"guestroom/infras/postgres"
	"guestroom/infras/redis"
	"guestroom/infras/s3"
	"guestroom/permissions"
	"guestroom/shared/cache"
	"guestroom/transport/consumer"
	"guestroom/transport/http"
	"guestroom/transport/http/middleware"
	"guestroom/transport/http/router"

	"github.com/google/wire"

	auditlogRepository "guestroom/internal/domains/auditlog/repository"
	auditlogService "guestroom/internal/domains/auditlog/service"
	authRepository "guestroom/internal/domains/auth/repository"
	authService "guestroom/internal/domains/auth/service"
	bookingRepository "guestroom/internal/domains/booking/repository"
	bookingService "guestroom/internal/domains/booking/service"
	dashboardRepository "guestroom/internal/domains/dashboard/repository"
	dashboardService "guestroom/internal/domains/dashboard/service"
	"guestroom/internal/domains/enquiry/prefill"
	enquiryRepository "guestroom/internal/domains/enquiry/repository"
	enquiryService "guestroom/internal/domains/enquiry/service"
	hostelRepository "guestroom/internal/domains/hostel/repository"
	hostelService "guestroom/internal/domains/hostel/service"
	"guestroom/internal/domains/notification/render"
	notificationService "guestroom/internal/domains/notification/service"
	roomRepository "guestroom/internal/domains/room/repository"
	roomService "guestroom/internal/domains/room/service"
	userRepository "guestroom/internal/domains/user/repository"
	userService "guestroom/internal/domains/user/service"

	auditlogHandler "guestroom/internal/handlers/auditlog"
	authHandler "guestroom/internal/handlers/auth"
	bookingHandler "guestroom/internal/handlers/booking"
	dashboardHandler "guestroom/internal/handlers/dashboard"
	enquiryHandler "guestroom/internal/handlers/enquiry"
	hostelHandler "guestroom/internal/handlers/hostel"
	roomHandler "guestroom/internal/handlers/room"
	userHandler "guestroom/internal/handlers/user"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	s3.New,
	kafka.New,
	mailer.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var notificationDomain = wire.NewSet(
	render.Must,
	notificationService.New,
)

var auditlogDomain = wire.NewSet(
	auditlogRepository.New,
	auditlogService.New,
)

var authDomain = wire.NewSet(
	authRepository.New,
	authService.New,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
)

var hostelDomain = wire.NewSet(
	hostelRepository.New,
	hostelService.New,
	roomRepository.New,
	roomService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var enquiryDomain = wire.NewSet(
	prefill.New,
	enquiryRepository.New,
	enquiryService.New,
)

var dashboardDomain = wire.NewSet(
	dashboardRepository.New,
	dashboardService.New,
)

var domains = wire.NewSet(
	notificationDomain,
	auditlogDomain,
	authDomain,
	userDomain,
	hostelDomain,
	bookingDomain,
	enquiryDomain,
	dashboardDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	roomHandler.New,
	hostelHandler.New,
	bookingHandler.New,
	enquiryHandler.New,
	dashboardHandler.New,
	auditlogHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeConsumer() *consumer.Consumer {
	wire.Build(
		config.Get,
		otel.New,
		kafka.New,
		mailer.New,
		notificationDomain,
		consumer.New,
	)

	return &consumer.Consumer{}
}
