package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dermadesk/dermadesk/internal/config"
	"github.com/dermadesk/dermadesk/internal/database"
	"github.com/dermadesk/dermadesk/internal/database/repository"
	"github.com/dermadesk/dermadesk/internal/logging"
	"github.com/dermadesk/dermadesk/internal/service"
	"github.com/dermadesk/dermadesk/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, closeLog := logging.Setup(cfg.Log)
	defer closeLog()

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.Fatalf("mkdir db dir: %v", err)
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrationsWithDB(db, "internal/database/migrations"); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	if err := database.SeedDefaults(ctx, db); err != nil {
		log.Fatalf("seed defaults: %v", err)
	}

	// repositories
	userRepo := repository.NewUserRepo(db)
	analysisRepo := repository.NewAnalysisRepo(db)
	apptRepo := repository.NewAppointmentRepo(db)
	sessionRepo := repository.NewCallSessionRepo(db)

	// services
	scheduler := &service.SchedulerService{Appointments: apptRepo, Sessions: sessionRepo}
	analysis := &service.AnalysisService{Analyses: analysisRepo}
	search := &service.SearchService{Users: userRepo}
	export := &service.ExportService{Analyses: analysisRepo, Dir: cfg.Export.Dir}
	maintenance := &service.MaintenanceService{DB: db}

	loc, err := time.LoadLocation(cfg.Clinic.Timezone)
	if err != nil {
		logger.Warn("falling back to local timezone", "tz", cfg.Clinic.Timezone, "err", err)
		loc = time.Local
	}

	logger.Info("dermadesk starting", "role", startRole(), "db", cfg.Database.Path)

	app := tui.New(ctx, cfg, logger,
		tui.Repos{Users: userRepo, Analyses: analysisRepo, Appointments: apptRepo, Sessions: sessionRepo},
		tui.Services{Scheduler: scheduler, Analysis: analysis, Search: search, Export: export, Maintenance: maintenance},
		startRole(), loc,
	)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}

// startRole reads the role from argv so a front-desk launcher can pin it;
// the in-app switcher covers the rest.
func startRole() string {
	if len(os.Args) > 1 {
		switch strings.ToLower(os.Args[1]) {
		case repository.RolePatient, repository.RoleDoctor, repository.RoleAssistant:
			return strings.ToLower(os.Args[1])
		}
	}
	return repository.RoleAssistant
}
