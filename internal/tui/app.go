// Package tui hosts the role-specific dashboards. Every list on every
// dashboard renders through internal/table; views only declare columns.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dermadesk/dermadesk/internal/config"
	"github.com/dermadesk/dermadesk/internal/database/repository"
	"github.com/dermadesk/dermadesk/internal/service"
	"github.com/dermadesk/dermadesk/internal/table"
)

// Repos groups the repositories the dashboards read from.
type Repos struct {
	Users        *repository.UserRepo
	Analyses     *repository.AnalysisRepo
	Appointments *repository.AppointmentRepo
	Sessions     *repository.CallSessionRepo
}

// Services groups the use-cases the dashboards invoke.
type Services struct {
	Scheduler   *service.SchedulerService
	Analysis    *service.AnalysisService
	Search      *service.SearchService
	Export      *service.ExportService
	Maintenance *service.MaintenanceService
}

type appState string

const (
	viewAppointments appState = "appointments"
	viewAnalyses     appState = "analyses"
	viewPatients     appState = "patients"
	viewSessions     appState = "sessions"
	viewSettings     appState = "settings"
)

type modalState string

const (
	modalNone         modalState = ""
	modalDetail       modalState = "detail"
	modalConfirmReset modalState = "confirmReset"
)

// App ties together the dashboards. Auth lives outside this program; the
// active role is whoever launched the binary, switchable at runtime for the
// shared front-desk terminal.
type App struct {
	ctx      context.Context
	cfg      config.Config
	log      *slog.Logger
	repos    Repos
	services Services
	tz       *time.Location

	role     string
	actor    repository.User
	doctorID string            // first doctor on file, the default booking target
	names    map[string]string // user id -> full name

	state  appState
	modal  modalState
	detail string
	status string
	width  int
	height int

	searching   bool
	searchInput string

	appts    table.Model[apptRow]
	analyses table.Model[analysisRow]
	patients table.Model[repository.User]
	sessions table.Model[sessionRow]
}

func New(ctx context.Context, cfg config.Config, log *slog.Logger, repos Repos, services Services, role string, tz *time.Location) *App {
	if tz == nil {
		tz = time.Local
	}
	if role == "" {
		role = repository.RoleAssistant
	}
	a := &App{
		ctx:      ctx,
		cfg:      cfg,
		log:      log,
		repos:    repos,
		services: services,
		tz:       tz,
		role:     role,
		names:    map[string]string{},
		state:    viewAppointments,
	}
	a.appts = table.New(table.Table[apptRow]{Columns: apptColumns(), KeyField: "ID", EmptyState: "No appointments scheduled."})
	a.appts.OnSelect = func(r apptRow, _ tea.Msg) { a.openDetail(a.renderApptDetail(r)) }

	a.analyses = table.New(table.Table[analysisRow]{Columns: analysisColumns(), KeyField: "ID", EmptyState: "No analyses yet."})
	a.analyses.OnSelect = func(r analysisRow, _ tea.Msg) { a.openDetail(a.renderAnalysisDetail(r)) }

	// the patient list renders repository rows directly
	a.patients = table.New(table.Table[repository.User]{Columns: patientColumns(), KeyField: "ID", EmptyState: "No matching patients."})
	a.patients.OnSelect = func(u repository.User, _ tea.Msg) { a.openDetail(a.renderPatientDetail(u)) }

	a.sessions = table.New(table.Table[sessionRow]{Columns: sessionColumns(), KeyField: "ID", EmptyState: "No call sessions."})
	a.sessions.OnSelect = func(r sessionRow, _ tea.Msg) { a.openDetail(a.renderSessionDetail(r)) }

	return a
}

func (a *App) Init() tea.Cmd {
	a.setAllLoading(true)
	return tea.Batch(
		a.appts.Init(), a.analyses.Init(), a.patients.Init(), a.sessions.Init(),
		a.loadUsers(),
	)
}

func (a *App) setAllLoading(v bool) {
	a.appts.SetLoading(v)
	a.analyses.SetLoading(v)
	a.patients.SetLoading(v)
	a.sessions.SetLoading(v)
}

// messages

type usersMsg []repository.User

type apptsMsg []repository.Appointment

type analysesMsg []repository.Analysis

type patientsMsg []service.PatientMatch

type sessionsMsg []repository.CallSession

type statusMsg string

type errMsg struct{ error }

type exportDoneMsg struct{ Result service.ExportResult }

// commands

func (a *App) loadUsers() tea.Cmd {
	return func() tea.Msg {
		users, err := a.repos.Users.List(a.ctx, repository.UserFilters{})
		if err != nil {
			return errMsg{err}
		}
		return usersMsg(users)
	}
}

func (a *App) loadAppointments() tea.Cmd {
	a.appts.SetLoading(true)
	f := repository.AppointmentFilters{}
	switch a.role {
	case repository.RolePatient:
		f.PatientID = a.actor.ID
	case repository.RoleDoctor:
		f.DoctorID = a.actor.ID
	}
	return func() tea.Msg {
		appts, err := a.repos.Appointments.List(a.ctx, f)
		if err != nil {
			return errMsg{err}
		}
		return apptsMsg(appts)
	}
}

func (a *App) loadAnalyses() tea.Cmd {
	a.analyses.SetLoading(true)
	f := repository.AnalysisFilters{}
	switch a.role {
	case repository.RolePatient:
		f.PatientID = a.actor.ID
	case repository.RoleDoctor:
		f.Status = repository.AnalysisPending // review queue
	}
	return func() tea.Msg {
		list, err := a.repos.Analyses.List(a.ctx, f)
		if err != nil {
			return errMsg{err}
		}
		return analysesMsg(list)
	}
}

func (a *App) loadPatients() tea.Cmd {
	a.patients.SetLoading(true)
	query := a.searchInput
	return func() tea.Msg {
		matches, err := a.services.Search.Patients(a.ctx, query)
		if err != nil {
			return errMsg{err}
		}
		return patientsMsg(matches)
	}
}

func (a *App) loadSessions() tea.Cmd {
	a.sessions.SetLoading(true)
	return func() tea.Msg {
		list, err := a.repos.Sessions.List(a.ctx, "")
		if err != nil {
			return errMsg{err}
		}
		return sessionsMsg(list)
	}
}

func (a *App) refresh() tea.Cmd {
	return tea.Batch(a.loadUsers(), a.loadAppointments(), a.loadAnalyses(), a.loadPatients(), a.loadSessions())
}

func (a *App) bookCmd(patient repository.User) tea.Cmd {
	doctorID := a.firstDoctorID()
	if doctorID == "" {
		return func() tea.Msg { return errMsg{fmt.Errorf("no doctor on file to book against")} }
	}
	start := nextSlot(time.Now().In(a.tz))
	return tea.Sequence(
		func() tea.Msg {
			_, err := a.services.Scheduler.Book(a.ctx, patient.ID, doctorID, start, start.Add(30*time.Minute), "")
			if err != nil {
				return errMsg{err}
			}
			a.log.Info("appointment booked", "patient", patient.ID, "doctor", doctorID, "starts", start)
			return statusMsg(fmt.Sprintf("booked %s at %s", patient.FullName, start.Format("15:04")))
		},
		a.loadAppointments(),
	)
}

func (a *App) cancelApptCmd(id string) tea.Cmd {
	return tea.Sequence(
		func() tea.Msg {
			if err := a.services.Scheduler.Cancel(a.ctx, id); err != nil {
				return errMsg{err}
			}
			return statusMsg("appointment cancelled")
		},
		a.loadAppointments(), a.loadSessions(),
	)
}

func (a *App) completeApptCmd(id string) tea.Cmd {
	return tea.Sequence(
		func() tea.Msg {
			if err := a.services.Scheduler.Complete(a.ctx, id); err != nil {
				return errMsg{err}
			}
			return statusMsg("appointment completed")
		},
		a.loadAppointments(), a.loadSessions(),
	)
}

func (a *App) openCallCmd(id string) tea.Cmd {
	return tea.Sequence(
		func() tea.Msg {
			sess, err := a.services.Scheduler.OpenCall(a.ctx, id)
			if err != nil {
				return errMsg{err}
			}
			return statusMsg("call room " + sess.RoomCode + " ready")
		},
		a.loadSessions(),
	)
}

func (a *App) endCallCmd(id string) tea.Cmd {
	return tea.Sequence(
		func() tea.Msg {
			if err := a.services.Scheduler.EndCall(a.ctx, id); err != nil {
				return errMsg{err}
			}
			return statusMsg("call ended")
		},
		a.loadSessions(),
	)
}

func (a *App) reviewAnalysisCmd(id string) tea.Cmd {
	doctorID := a.actor.ID
	return tea.Sequence(
		func() tea.Msg {
			if err := a.services.Analysis.Review(a.ctx, id, doctorID, ""); err != nil {
				return errMsg{err}
			}
			return statusMsg("analysis marked reviewed")
		},
		a.loadAnalyses(),
	)
}

func (a *App) submitAnalysisCmd() tea.Cmd {
	patientID := a.actor.ID
	return tea.Sequence(
		func() tea.Msg {
			path := fmt.Sprintf("uploads/%s/%d.jpg", patientID, time.Now().Unix())
			if _, err := a.services.Analysis.Submit(a.ctx, patientID, path); err != nil {
				return errMsg{err}
			}
			return statusMsg("photo queued for analysis")
		},
		a.loadAnalyses(),
	)
}

func (a *App) exportCmd() tea.Cmd {
	return func() tea.Msg {
		res, err := a.services.Export.TrainingData(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		a.log.Info("training data exported", "path", res.Path, "rows", res.Count)
		return exportDoneMsg{Result: res}
	}
}

func (a *App) saveConfigCmd() tea.Cmd {
	cfg := a.cfg
	return func() tea.Msg {
		if err := config.Save(cfg); err != nil {
			return errMsg{err}
		}
		a.log.Info("settings saved")
		return statusMsg("settings saved")
	}
}

func (a *App) resetCmd() tea.Cmd {
	return tea.Sequence(
		func() tea.Msg {
			if err := a.services.Maintenance.Reset(a.ctx); err != nil {
				return errMsg{err}
			}
			return statusMsg("database reset")
		},
		a.refresh(),
	)
}

// update

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		w := m.Width - 4
		a.appts.SetWidth(w)
		a.analyses.SetWidth(w)
		a.patients.SetWidth(w)
		a.sessions.SetWidth(w)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(m)

	case usersMsg:
		a.names = make(map[string]string, len(m))
		a.doctorID = ""
		for _, u := range m {
			a.names[u.ID] = u.FullName
			if a.doctorID == "" && u.Role == repository.RoleDoctor {
				a.doctorID = u.ID
			}
		}
		a.resolveActor([]repository.User(m))
		// name lookups are ready; now the row sets can be built
		return a, tea.Batch(a.loadAppointments(), a.loadAnalyses(), a.loadPatients(), a.loadSessions())

	case apptsMsg:
		a.appts.SetLoading(false)
		a.appts.SetRows(a.apptRows([]repository.Appointment(m)))
		return a, nil

	case analysesMsg:
		a.analyses.SetLoading(false)
		a.analyses.SetRows(a.analysisRows([]repository.Analysis(m)))
		return a, nil

	case patientsMsg:
		a.patients.SetLoading(false)
		rows := make([]repository.User, 0, len(m))
		for _, pm := range m {
			rows = append(rows, pm.Patient)
		}
		a.patients.SetRows(rows)
		return a, nil

	case sessionsMsg:
		a.sessions.SetLoading(false)
		a.sessions.SetRows(a.sessionRows([]repository.CallSession(m)))
		return a, nil

	case statusMsg:
		a.status = string(m)
		return a, nil

	case exportDoneMsg:
		a.status = fmt.Sprintf("exported %d rows to %s", m.Result.Count, m.Result.Path)
		return a, nil

	case errMsg:
		a.status = "error: " + m.Error()
		a.log.Error("dashboard action failed", "err", m.Error())
		a.setAllLoading(false)
		return a, nil

	case tea.MouseMsg:
		// clicks only reach the table on screen
		var cmd tea.Cmd
		switch a.state {
		case viewAnalyses:
			a.analyses, cmd = a.analyses.Update(m)
		case viewPatients:
			a.patients, cmd = a.patients.Update(m)
		case viewSessions:
			a.sessions, cmd = a.sessions.Update(m)
		case viewAppointments:
			a.appts, cmd = a.appts.Update(m)
		}
		return a, cmd
	}

	// spinner ticks and anything else flow to the tables
	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.appts, cmd = a.appts.Update(msg)
	cmds = append(cmds, cmd)
	a.analyses, cmd = a.analyses.Update(msg)
	cmds = append(cmds, cmd)
	a.patients, cmd = a.patients.Update(msg)
	cmds = append(cmds, cmd)
	a.sessions, cmd = a.sessions.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.modal != modalNone {
		return a.handleModalKey(m)
	}
	if a.searching {
		return a.handleSearchKey(m)
	}

	switch m.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "1":
		return a.switchRole(repository.RolePatient)
	case "2":
		return a.switchRole(repository.RoleDoctor)
	case "3":
		return a.switchRole(repository.RoleAssistant)
	case "a":
		a.state = viewAppointments
		return a, nil
	case "n":
		a.state = viewAnalyses
		return a, nil
	case "p":
		if a.role == repository.RoleAssistant {
			a.state = viewPatients
		}
		return a, nil
	case "s":
		if a.role == repository.RoleAssistant {
			a.state = viewSessions
		}
		return a, nil
	case "0":
		a.state = viewSettings
		return a, nil
	case "r":
		a.status = ""
		return a, a.refresh()
	}

	switch a.state {
	case viewAppointments:
		return a.handleApptKey(m)
	case viewAnalyses:
		return a.handleAnalysisKey(m)
	case viewPatients:
		return a.handlePatientKey(m)
	case viewSessions:
		return a.handleSessionKey(m)
	case viewSettings:
		return a.handleSettingsKey(m)
	}
	return a, nil
}

func (a *App) handleApptKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "x":
		if row, ok := a.appts.Selected(); ok {
			return a, a.cancelApptCmd(row.ID)
		}
	case "m":
		if a.role == repository.RolePatient {
			break
		}
		if row, ok := a.appts.Selected(); ok {
			return a, a.completeApptCmd(row.ID)
		}
	case "o":
		if row, ok := a.appts.Selected(); ok {
			return a, a.openCallCmd(row.ID)
		}
	}
	var cmd tea.Cmd
	a.appts, cmd = a.appts.Update(m)
	return a, cmd
}

func (a *App) handleAnalysisKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "v":
		if a.role != repository.RoleDoctor {
			break
		}
		if row, ok := a.analyses.Selected(); ok {
			return a, a.reviewAnalysisCmd(row.ID)
		}
	case "u":
		if a.role != repository.RolePatient {
			break
		}
		return a, a.submitAnalysisCmd()
	}
	var cmd tea.Cmd
	a.analyses, cmd = a.analyses.Update(m)
	return a, cmd
}

func (a *App) handlePatientKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "/":
		a.searching = true
		return a, nil
	case "b":
		if row, ok := a.patients.Selected(); ok {
			return a, a.bookCmd(row)
		}
	}
	var cmd tea.Cmd
	a.patients, cmd = a.patients.Update(m)
	return a, cmd
}

func (a *App) handleSessionKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "e":
		if row, ok := a.sessions.Selected(); ok && row.Status == repository.SessionLive {
			return a, a.endCallCmd(row.ID)
		}
	}
	var cmd tea.Cmd
	a.sessions, cmd = a.sessions.Update(m)
	return a, cmd
}

func (a *App) handleSettingsKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "g":
		a.status = "exporting..."
		return a, a.exportCmd()
	case "w":
		return a, a.saveConfigCmd()
	case "x":
		a.modal = modalConfirmReset
		return a, nil
	}
	return a, nil
}

func (a *App) handleModalKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.modal {
	case modalConfirmReset:
		switch m.String() {
		case "y", "Y":
			a.modal = modalNone
			return a, a.resetCmd()
		case "n", "N", "esc":
			a.modal = modalNone
		}
	case modalDetail:
		switch m.String() {
		case "esc", "enter", "q":
			a.modal = modalNone
			a.detail = ""
		}
	}
	return a, nil
}

func (a *App) handleSearchKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Type {
	case tea.KeyEsc:
		a.searching = false
		a.searchInput = ""
		return a, a.loadPatients()
	case tea.KeyEnter:
		a.searching = false
		return a, a.loadPatients()
	case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
		if len(a.searchInput) > 0 {
			a.searchInput = a.searchInput[:len(a.searchInput)-1]
		}
	case tea.KeySpace:
		a.searchInput += " "
	case tea.KeyRunes:
		a.searchInput += string(m.Runes)
	}
	return a, nil
}

func (a *App) switchRole(role string) (tea.Model, tea.Cmd) {
	a.role = role
	a.status = ""
	if a.state == viewPatients || a.state == viewSessions {
		if role != repository.RoleAssistant {
			a.state = viewAppointments
		}
	}
	return a, a.loadUsers()
}

// resolveActor picks the account the active role operates as. Real
// deployments get this from the session; the shared terminal picks the
// first account of the role.
func (a *App) resolveActor(users []repository.User) {
	for _, u := range users {
		if u.Role == a.role {
			a.actor = u
			return
		}
	}
	a.actor = repository.User{Role: a.role, FullName: "(no account)"}
}

func (a *App) firstDoctorID() string {
	return a.doctorID
}

func (a *App) openDetail(content string) {
	a.detail = content
	a.modal = modalDetail
}

// nextSlot rounds up to the next full hour.
func nextSlot(now time.Time) time.Time {
	return now.Truncate(time.Hour).Add(time.Hour)
}
