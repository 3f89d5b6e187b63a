package handlers

import "github.com/gofiber/fiber/v2"

const Version = "1.0.0"

// Register mounts every route on app
func Register(app *fiber.App, formHandler *FormHandler, paramsHandler *ParametersHandler, healthHandler *HealthHandler) {
	app.Get("/", formHandler.Show)
	app.Post("/", formHandler.Update)

	app.Get("/health", healthHandler.Health)
	app.Get("/health/ready", healthHandler.Ready)

	v1 := app.Group("/v1")
	v1.Get("/parameters/options", paramsHandler.Options)
	v1.Post("/parameters/validate", paramsHandler.Validate)
	v1.Post("/parameters/submit", paramsHandler.Submit)
	v1.Get("/submissions", paramsHandler.ListSubmissions)
	v1.Get("/submissions/:id", paramsHandler.GetSubmission)
}
