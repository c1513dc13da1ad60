package routes

import (
	"net/http"

	"mawid/admin"
	"mawid/auth"
	"mawid/calendar"
	"mawid/events"
	"mawid/middleware"
	"mawid/payments"
	"mawid/promo"
	"mawid/provider"
	"mawid/ratelim"
	"mawid/tickets"
	"mawid/user"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/userpic/*filepath", http.Dir("static/userpic"))
	router.ServeFiles("/static/providerpic/*filepath", http.Dir("static/providerpic"))
}

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/user/register", rl.Limit(auth.RegisterUser))
	router.POST("/api/user/login", rl.Limit(auth.LoginUser))
	router.POST("/api/provider/login", rl.Limit(auth.LoginProvider))
	router.POST("/api/provider/register/init", rl.Limit(auth.RegisterProviderStep1))
	router.POST("/api/provider/register/verify", rl.Limit(auth.RegisterProviderStep2))
	router.POST("/api/provider/register/resend-otp", rl.Limit(auth.ResendOTP))
	router.POST("/api/admin/login", rl.Limit(auth.LoginAdmin))
}

func AddUserRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/user/profile", middleware.AuthenticateUser(user.GetProfile))
	router.POST("/api/user/update-profile", middleware.AuthenticateUser(user.UpdateProfile))
	router.POST("/api/user/book-appointment", rl.Limit(middleware.AuthenticateUser(user.BookAppointment)))
	router.GET("/api/user/appointments", middleware.AuthenticateUser(user.ListAppointments))
	router.POST("/api/user/cancel-appointment", middleware.AuthenticateUser(user.CancelAppointment))
}

func AddProviderRoutes(router *httprouter.Router) {
	router.GET("/api/provider/list", provider.ListProviders)
	router.GET("/api/provider/appointments", middleware.AuthenticateProvider(provider.ListAppointments))
	router.POST("/api/provider/complete-appointment", middleware.AuthenticateProvider(provider.CompleteAppointment))
	router.POST("/api/provider/cancel-appointment", middleware.AuthenticateProvider(provider.CancelAppointment))
	router.GET("/api/provider/dashboard", middleware.AuthenticateProvider(provider.Dashboard))
	router.GET("/api/provider/profile", middleware.AuthenticateProvider(provider.GetProfile))
	router.POST("/api/provider/update-profile", middleware.AuthenticateProvider(provider.UpdateProfile))
}

func AddAdminRoutes(router *httprouter.Router) {
	router.POST("/api/admin/add-provider", middleware.AuthenticateAdmin(admin.AddProvider))
	router.GET("/api/admin/all-providers", middleware.AuthenticateAdmin(admin.AllProviders))
	router.POST("/api/admin/change-availability", middleware.AuthenticateAdmin(admin.ChangeAvailability))
	router.GET("/api/admin/appointments", middleware.AuthenticateAdmin(admin.ListAppointments))
	router.POST("/api/admin/cancel-appointment", middleware.AuthenticateAdmin(admin.CancelAppointment))
	router.GET("/api/admin/dashboard", middleware.AuthenticateAdmin(admin.Dashboard))
	router.POST("/api/admin/migrate-bookings", middleware.AuthenticateAdmin(admin.MigrateLegacyBookings))
}

func AddCalendarRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/calendar/config", middleware.AuthenticateProvider(calendar.GetConfig))
	router.POST("/api/calendar/config", middleware.AuthenticateProvider(calendar.UpdateConfig))
	router.POST("/api/calendar/generate-slots", middleware.AuthenticateProvider(calendar.GenerateSlots))
	router.GET("/api/calendar/slots", middleware.AuthenticateProvider(calendar.GetProviderSlots))
	router.POST("/api/calendar/toggle-slot", middleware.AuthenticateProvider(calendar.ToggleSlotStatus))
	router.POST("/api/calendar/cancel-booking", middleware.AuthenticateProvider(calendar.CancelSlotBookingByProvider))
	router.POST("/api/calendar/complete-booking", middleware.AuthenticateProvider(calendar.CompleteSlotBooking))

	router.GET("/api/calendar/available/:providerId", calendar.GetAvailableSlots)
	router.POST("/api/calendar/book-slot", rl.Limit(middleware.AuthenticateUser(calendar.BookSlot)))
	router.POST("/api/calendar/cancel-slot", middleware.AuthenticateUser(calendar.CancelSlotBooking))
	router.GET("/api/calendar/bookings", middleware.AuthenticateUser(calendar.GetUserBookings))

	router.GET("/ws/slots/:providerId", calendar.HandleSlotWS)
}

func AddEventRoutes(router *httprouter.Router) {
	router.GET("/api/events/all", events.GetAllEvents)
	router.POST("/api/events", middleware.AuthenticateProvider(events.CreateEvent))
	router.GET("/api/events/provider", middleware.AuthenticateProvider(events.GetProviderEvents))
	router.PUT("/api/events/:eventId", middleware.AuthenticateProvider(events.UpdateEvent))
	router.DELETE("/api/events/:eventId", middleware.AuthenticateProvider(events.DeleteEvent))
	router.POST("/api/events/register", middleware.AuthenticateUser(events.RegisterForEvent))
	router.GET("/api/events/user", middleware.AuthenticateUser(events.GetUserEvents))
}

func AddPromoRoutes(router *httprouter.Router) {
	router.POST("/api/promo", middleware.AuthenticateProvider(promo.Create))
	router.GET("/api/promo", middleware.AuthenticateProvider(promo.GetProviderCodes))
	router.PUT("/api/promo/:promoId", middleware.AuthenticateProvider(promo.Update))
	router.DELETE("/api/promo/:promoId", middleware.AuthenticateProvider(promo.Delete))
	router.POST("/api/promo/validate", middleware.OptionalAuth(promo.Validate))
}

func AddPaymentRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/payments/:gateway/appointment", rl.Limit(middleware.AuthenticateUser(payments.CheckoutAppointment)))
	router.POST("/api/payments/:gateway/appointment/verify", rl.Limit(middleware.AuthenticateUser(payments.VerifyAppointment)))
	router.POST("/api/payments/:gateway/slot", rl.Limit(middleware.AuthenticateUser(payments.CheckoutSlot)))
	router.POST("/api/payments/:gateway/slot/verify", rl.Limit(middleware.AuthenticateUser(payments.VerifySlot)))
	router.POST("/api/payments/:gateway/event", rl.Limit(middleware.AuthenticateUser(payments.CheckoutEvent)))
	router.POST("/api/payments/:gateway/event/verify", rl.Limit(middleware.AuthenticateUser(payments.VerifyEvent)))
}

func AddTicketRoutes(router *httprouter.Router) {
	router.GET("/api/tickets/event/:eventId", middleware.AuthenticateUser(tickets.EventTicket))
	router.GET("/api/tickets/booking/:slotId", middleware.AuthenticateUser(tickets.BookingTicket))
	router.GET("/api/tickets/verify", middleware.AuthenticateProvider(tickets.VerifyTicket))
}
