package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/protomem/medicall/internal/auth"
	"github.com/protomem/medicall/internal/database"
	"github.com/protomem/medicall/internal/env"
	"github.com/protomem/medicall/internal/model"
	"github.com/shopspring/decimal"
)

var _cfgFile = flag.String("cfg", "", "path to config file")

func main() {
	flag.Parse()

	if *_cfgFile != "" {
		if err := env.Load(*_cfgFile); err != nil {
			fmt.Fprintf(os.Stderr, "load config: %v\n", err)
			os.Exit(1)
		}
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if err := run(logger); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

type seeder struct {
	logger    *slog.Logger
	users     *database.UserDAO
	workers   *database.WorkerProfileDAO
	hospitals *database.HospitalProfileDAO
	shifts    *database.ShiftDAO
}

func run(logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := database.New(logger, env.GetString("DB_DSN", "postgres:postgres@localhost:5432/medicall"), true)
	if err != nil {
		return err
	}
	defer db.Close()

	s := seeder{
		logger:    logger,
		users:     database.NewUserDAO(logger, db),
		workers:   database.NewWorkerProfileDAO(logger, db),
		hospitals: database.NewHospitalProfileDAO(logger, db),
		shifts:    database.NewShiftDAO(logger, db),
	}

	hospital, err := s.user(ctx, testUser{
		username: "hospital", email: "hospital@test.com", firstName: "City", lastName: "General Hospital",
		role: model.RoleHospital, phone: "+1555123456", password: env.GetString("TEST_HOSPITAL_PASSWORD", "test123"),
	})
	if err != nil {
		return err
	}
	worker, err := s.user(ctx, testUser{
		username: "worker", email: "worker@test.com", firstName: "Sarah", lastName: "Johnson",
		role: model.RoleWorker, phone: "+1555987654", password: env.GetString("TEST_WORKER_PASSWORD", "test123"),
	})
	if err != nil {
		return err
	}
	if _, err := s.user(ctx, testUser{
		username: "admin", email: "admin@medicall.com", firstName: "Admin", lastName: "User",
		role: model.RoleAdmin, phone: "+1555000000", password: env.GetString("TEST_ADMIN_PASSWORD", "admin123"),
	}); err != nil {
		return err
	}

	if err := s.hospitalProfile(ctx, hospital); err != nil {
		return err
	}
	if err := s.workerProfile(ctx, worker); err != nil {
		return err
	}

	created, err := s.sampleShifts(ctx, hospital, time.Now())
	if err != nil {
		return err
	}

	logger.Info("seeding completed", "shiftsCreated", created)

	return nil
}

type testUser struct {
	username  string
	email     string
	firstName string
	lastName  string
	role      model.Role
	phone     string
	password  string
}

func (s seeder) user(ctx context.Context, u testUser) (model.ID, error) {
	existing, err := s.users.GetByUsername(ctx, u.username)
	if err == nil {
		s.logger.Warn("user already exists", "username", u.username)
		return existing.ID, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return 0, err
	}

	hash, err := auth.HashPassword(u.password)
	if err != nil {
		return 0, err
	}

	id, err := s.users.Insert(ctx, model.InsertUserDTO{
		Username:     u.username,
		Email:        u.email,
		PasswordHash: hash,
		FirstName:    u.firstName,
		LastName:     u.lastName,
		Role:         u.role,
		IsVerified:   true,
		PhoneNumber:  &u.phone,
	})
	if err != nil {
		return 0, fmt.Errorf("create user %s: %w", u.username, err)
	}

	s.logger.Info("user created", "username", u.username, "userType", u.role)

	return id, nil
}

func (s seeder) hospitalProfile(ctx context.Context, userID model.ID) error {
	_, err := s.hospitals.Insert(ctx, model.InsertHospitalProfileDTO{
		UserID:        userID,
		HospitalName:  "City General Hospital",
		LicenseNumber: "HOSP-0001",
		Address:       "100 Main Street",
		City:          "Springfield",
		State:         "IL",
		ZipCode:       "62701",
		Country:       "US",
		Phone:         "+1555123456",
		Departments:   []string{"Emergency Medicine", "Critical Care", "Cardiology", "Pediatrics", "Surgery"},
		BedCount:      350,
	})
	switch {
	case errors.Is(err, model.ErrExists):
		s.logger.Warn("hospital profile already exists", "userId", userID)
	case err != nil:
		return err
	}

	// Only verified hospitals show up in listings.
	return s.hospitals.Verify(ctx, userID)
}

func (s seeder) workerProfile(ctx context.Context, userID model.ID) error {
	availability := make(model.Availability, len(model.Weekdays))
	for _, day := range model.Weekdays {
		availability[day] = []model.TimeRange{{Start: "08:00", End: "20:00"}}
	}

	_, err := s.workers.Insert(ctx, model.InsertWorkerProfileDTO{
		UserID:          userID,
		LicenseNumber:   "RN123456",
		Specialties:     []string{"Emergency Medicine", "Critical Care"},
		ExperienceYears: 5,
		Certifications:  []string{"BLS", "ACLS", "PALS"},
		Availability:    availability,
		HourlyRate:      decimal.NewNullDecimal(decimal.NewFromInt(85)),
		Country:         "US",
	})
	if errors.Is(err, model.ErrExists) {
		s.logger.Warn("worker profile already exists", "userId", userID)
		return nil
	}
	return err
}

type sampleShift struct {
	dayOffset     int
	department    string
	role          string
	start, end    string
	hours         int64
	pay           int64
	urgency       model.Urgency
	requirements  string
	location      string
	description   string
	maxApplicants int
}

var _sampleShifts = []sampleShift{
	{1, "Emergency Medicine", "Emergency Physician", "08:00", "20:00", 12, 120, model.UrgencyHigh,
		"Board certified emergency medicine physician with 3+ years experience",
		"Emergency Department, 1st Floor", "Covering emergency department shift. High volume trauma center.", 5},
	{2, "Critical Care", "ICU Nurse", "07:00", "19:00", 12, 45, model.UrgencyMedium,
		"RN with ICU experience, BLS and ACLS certified",
		"Intensive Care Unit, 3rd Floor", "ICU nursing shift. Managing critically ill patients.", 3},
	{3, "Cardiology", "Cardiologist", "09:00", "17:00", 8, 150, model.UrgencyLow,
		"Board certified cardiologist, experience with cardiac procedures",
		"Cardiology Department, 2nd Floor", "Outpatient cardiology clinic. Patient consultations and procedures.", 2},
	{4, "Pediatrics", "Pediatrician", "08:00", "18:00", 10, 100, model.UrgencyMedium,
		"Board certified pediatrician, experience with pediatric emergencies",
		"Pediatric Ward, 4th Floor", "Pediatric ward coverage. Managing pediatric patients.", 4},
	{5, "Surgery", "Surgical Nurse", "06:00", "18:00", 12, 50, model.UrgencyHigh,
		"RN with OR experience, sterile technique certified",
		"Operating Room, 1st Floor", "Surgical nursing shift. Assisting with various surgical procedures.", 3},
}

// sampleShifts posts the sample shifts on the days following now, skipping
// any the hospital already has for the same department, role and date.
func (s seeder) sampleShifts(ctx context.Context, hospitalID model.ID, now time.Time) (int, error) {
	created := 0

	for _, sample := range _sampleShifts {
		date := model.NewDate(now.AddDate(0, 0, sample.dayOffset))

		existing, err := s.shifts.Find(ctx, model.ShiftFilter{
			Scope:      model.OwnedBy(model.OwnerHospital, hospitalID),
			Department: &sample.department,
			Date:       &date,
			Search:     sample.role,
		}, model.NewFindOptions(1, 0))
		if err != nil {
			return created, err
		}
		if len(existing) > 0 {
			s.logger.Warn("shift already exists", "role", sample.role, "department", sample.department)
			continue
		}

		if _, err := s.shifts.Insert(ctx, model.InsertShiftDTO{
			HospitalID:    hospitalID,
			Department:    sample.department,
			Position:      sample.role,
			Date:          date,
			StartTime:     sample.start,
			EndTime:       sample.end,
			DurationHours: decimal.NewFromInt(sample.hours),
			PayPerHour:    decimal.NewFromInt(sample.pay),
			Urgency:       sample.urgency,
			Requirements:  sample.requirements,
			Location:      sample.location,
			Description:   sample.description,
			MaxApplicants: sample.maxApplicants,
		}); err != nil {
			return created, err
		}

		created++
		s.logger.Info("shift created", "role", sample.role, "department", sample.department, "date", date.String())
	}

	return created, nil
}
