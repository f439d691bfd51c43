package main

import (
	"clinicbook/internal/appointments/events"
	appointmenthandler "clinicbook/internal/appointments/handler"
	appointmentrepo "clinicbook/internal/appointments/repository"
	appointmentservice "clinicbook/internal/appointments/service"
	"clinicbook/internal/appointments/validator"
	doctorhandler "clinicbook/internal/doctors/handler"
	doctorrepo "clinicbook/internal/doctors/repository"
	doctorservice "clinicbook/internal/doctors/service"
	"clinicbook/pkg/app"
	"clinicbook/pkg/config"
)

const ServiceName = "appointments"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Appointments service")

	doctorRepository := doctorrepo.NewMongoDoctorRepository(cfg)

	publisher, err := events.NewKafkaPublisher(cfg, ServiceName)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize event publisher", "error", err)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Warn("Failed to close event publisher", "error", err)
		}
	}()

	appointmentService := appointmentservice.NewAppointmentService(
		appointmentrepo.NewMongoAppointmentRepository(cfg),
		appointmentrepo.NewMongoSlotLockRepository(cfg),
		doctorRepository,
		validator.NewSlotValidator(cfg),
		publisher,
		cfg,
	)
	doctorService := doctorservice.NewDoctorService(doctorRepository, cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		appointmenthandler.NewAppointmentHandler(appointmentService, cfg.Log),
		doctorhandler.NewDoctorHandler(doctorService, cfg.Log),
	)
	serverApp.Run()
}
