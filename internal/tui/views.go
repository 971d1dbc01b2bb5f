package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dermadesk/dermadesk/internal/database/repository"
	"github.com/dermadesk/dermadesk/internal/table"
)

// Row view-models. Tables render these; IDs double as row identity so the
// cursor survives refreshes.

type apptRow struct {
	ID      string
	Starts  time.Time
	Ends    time.Time
	Patient string
	Doctor  string
	Status  string
	Reason  string
}

type analysisRow struct {
	ID         string
	Created    time.Time
	Patient    string
	Condition  string
	Confidence *float64
	Severity   string
	Status     string
	ImagePath  string
	Notes      string
}

type sessionRow struct {
	ID          string
	Room        string
	Appointment string
	Status      string
	StartedAt   *time.Time
	EndedAt     *time.Time
}

func apptColumns() []table.Column[apptRow] {
	return []table.Column[apptRow]{
		{Header: "When", Accessor: table.Func(func(r apptRow) any {
			return r.Starts.Format("Mon 02 Jan 15:04") + "–" + r.Ends.Format("15:04")
		})},
		{Header: "Patient", Key: "Patient"},
		{Header: "Doctor", Key: "Doctor"},
		// Key kept alongside Cell on purpose: the cell renderer wins
		{Header: "Status", Key: "Status", Cell: func(r apptRow) string { return styledStatus(r.Status) }},
		{Header: "Reason", Accessor: table.Field[apptRow]("Reason")},
	}
}

func analysisColumns() []table.Column[analysisRow] {
	return []table.Column[analysisRow]{
		{Header: "Submitted", Accessor: table.Func(func(r analysisRow) any {
			return r.Created.Format("02 Jan 15:04")
		})},
		{Header: "Patient", Key: "Patient"},
		{Header: "Condition", Accessor: table.Field[analysisRow]("Condition")},
		{Header: "Confidence", AccessorFn: func(r analysisRow) any {
			if r.Confidence == nil {
				return nil // blank until the pipeline reports
			}
			return fmt.Sprintf("%.0f%%", *r.Confidence*100)
		}},
		{Header: "Severity", Cell: func(r analysisRow) string { return styledSeverity(r.Severity) }},
		{Header: "Status", Cell: func(r analysisRow) string { return styledStatus(r.Status) }},
	}
}

func patientColumns() []table.Column[repository.User] {
	return []table.Column[repository.User]{
		{Header: "Name", Key: "FullName"},
		{Header: "Email", Key: "Email"},
		{Header: "Phone", Accessor: table.Func(func(u repository.User) any {
			if u.Phone == nil {
				return nil
			}
			return *u.Phone
		})},
	}
}

func sessionColumns() []table.Column[sessionRow] {
	return []table.Column[sessionRow]{
		{Header: "Room", Key: "Room"},
		{Header: "Appointment", Key: "Appointment"},
		{Header: "Status", Cell: func(r sessionRow) string { return styledStatus(r.Status) }},
		{Header: "Duration", Accessor: table.Func(func(r sessionRow) any {
			if r.StartedAt == nil {
				return nil
			}
			end := time.Now().UTC()
			if r.EndedAt != nil {
				end = *r.EndedAt
			}
			return end.Sub(*r.StartedAt).Round(time.Second).String()
		})},
	}
}

// row builders

func (a *App) apptRows(appts []repository.Appointment) []apptRow {
	rows := make([]apptRow, 0, len(appts))
	for _, ap := range appts {
		r := apptRow{
			ID:      ap.ID,
			Starts:  ap.StartsAt.In(a.tz),
			Ends:    ap.EndsAt.In(a.tz),
			Patient: a.userName(ap.PatientID),
			Doctor:  a.userName(ap.DoctorID),
			Status:  ap.Status,
		}
		if ap.Reason != nil {
			r.Reason = *ap.Reason
		}
		rows = append(rows, r)
	}
	return rows
}

func (a *App) analysisRows(list []repository.Analysis) []analysisRow {
	rows := make([]analysisRow, 0, len(list))
	for _, an := range list {
		r := analysisRow{
			ID:         an.ID,
			Created:    an.CreatedAt.In(a.tz),
			Patient:    a.userName(an.PatientID),
			Confidence: an.Confidence,
			Status:     an.Status,
			ImagePath:  an.ImagePath,
		}
		if an.Condition != nil {
			r.Condition = *an.Condition
		}
		if an.Severity != nil {
			r.Severity = *an.Severity
		}
		if an.Notes != nil {
			r.Notes = *an.Notes
		}
		rows = append(rows, r)
	}
	return rows
}

func (a *App) sessionRows(list []repository.CallSession) []sessionRow {
	rows := make([]sessionRow, 0, len(list))
	for _, s := range list {
		rows = append(rows, sessionRow{
			ID:          s.ID,
			Room:        s.RoomCode,
			Appointment: shortID(s.AppointmentID),
			Status:      s.Status,
			StartedAt:   s.StartedAt,
			EndedAt:     s.EndedAt,
		})
	}
	return rows
}

func (a *App) userName(id string) string {
	if name, ok := a.names[id]; ok && name != "" {
		return name
	}
	return shortID(id)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// view

func (a *App) View() string {
	header := a.renderHeader()
	var body string
	switch a.state {
	case viewAnalyses:
		body = a.sectionTitle("Analyses") + "\n" + a.analyses.View()
	case viewPatients:
		body = a.sectionTitle("Patients") + a.renderSearchLine() + "\n" + a.patients.View()
	case viewSessions:
		body = a.sectionTitle("Call Sessions") + "\n" + a.sessions.View()
	case viewSettings:
		body = a.renderSettings()
	default:
		body = a.sectionTitle("Appointments") + "\n" + a.appts.View()
	}

	out := header + "\n\n" + body
	statusLine := statusBarStyle.Render(padRight(a.status, max(0, a.width-2)))
	footer := footerStyle.Render(padRight(a.footerText(), max(0, a.width-2)))
	base := a.placeWithFooter(out, statusLine, footer)

	if a.modal != modalNone {
		return overlayCenter(base, a.renderModal(), a.width, a.height)
	}
	return base
}

func (a *App) renderHeader() string {
	title := titleStyle.Render(a.cfg.Clinic.Name)
	who := labelStyle.Render(fmt.Sprintf("%s - %s", titleCase(a.role), a.actor.FullName))
	if a.width == 0 {
		return title + "  " + who
	}
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(who)
	if gap < 1 {
		gap = 1
	}
	return title + strings.Repeat(" ", gap) + who
}

func (a *App) sectionTitle(s string) string {
	return titleStyle.Render(s)
}

func (a *App) renderSearchLine() string {
	if !a.searching && a.searchInput == "" {
		return ""
	}
	prompt := "  /" + a.searchInput
	if a.searching {
		prompt += "▌"
	}
	return "  " + labelStyle.Render(prompt)
}

func (a *App) renderSettings() string {
	var b strings.Builder
	b.WriteString(a.sectionTitle("Settings") + "\n")
	b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Database:"), a.cfg.Database.Path))
	b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Export dir:"), a.cfg.Export.Dir))
	b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Log file:"), a.cfg.Log.Path))
	b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Timezone:"), a.tz.String()))
	b.WriteString("\n[g] Export training data  [w] Save settings  [x] Reset database")
	return b.String()
}

func (a *App) renderModal() string {
	switch a.modal {
	case modalConfirmReset:
		return modalStyle.Render(titleStyle.Render("Reset database?") + "\nThis will delete all data.\n[y] Yes  [n] No")
	case modalDetail:
		return modalStyle.Render(a.detail + "\n\n" + labelStyle.Render("[esc] Close"))
	}
	return ""
}

func (a *App) footerText() string {
	common := "[1/2/3] Role  [a] Appointments  [n] Analyses  "
	if a.role == repository.RoleAssistant {
		common += "[p] Patients  [s] Sessions  "
	}
	common += "[0] Settings  [r] Refresh  [q] Quit"
	switch a.state {
	case viewAppointments:
		extra := "[enter] Detail  [x] Cancel  [o] Open call"
		if a.role != repository.RolePatient {
			extra += "  [m] Complete"
		}
		return extra + "  " + common
	case viewAnalyses:
		switch a.role {
		case repository.RoleDoctor:
			return "[enter] Detail  [v] Mark reviewed  " + common
		case repository.RolePatient:
			return "[enter] Detail  [u] Upload photo  " + common
		}
		return "[enter] Detail  " + common
	case viewPatients:
		return "[enter] Detail  [/] Search  [b] Book next slot  " + common
	case viewSessions:
		return "[enter] Detail  [e] End live call  " + common
	}
	return common
}

func (a *App) placeWithFooter(body, statusLine, footer string) string {
	if a.height == 0 {
		return body + "\n\n" + statusLine + "\n" + footer
	}
	contentHeight := a.height - 2
	if contentHeight < 1 {
		contentHeight = 1
	}
	if lipgloss.Height(body) >= contentHeight {
		return body + "\n" + statusLine + "\n" + footer
	}
	main := lipgloss.Place(a.width, contentHeight, lipgloss.Left, lipgloss.Top, body)
	return main + "\n" + statusLine + "\n" + footer
}

// detail renderers

func (a *App) renderApptDetail(r apptRow) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Appointment") + "\n")
	fmt.Fprintf(&b, "%s %s – %s\n", labelStyle.Render("When:"), r.Starts.Format("Mon 02 Jan 2006 15:04"), r.Ends.Format("15:04"))
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Patient:"), r.Patient)
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Doctor:"), r.Doctor)
	fmt.Fprintf(&b, "%s %s", labelStyle.Render("Status:"), styledStatus(r.Status))
	if r.Reason != "" {
		fmt.Fprintf(&b, "\n%s %s", labelStyle.Render("Reason:"), r.Reason)
	}
	return b.String()
}

func (a *App) renderAnalysisDetail(r analysisRow) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Analysis") + "\n")
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Patient:"), r.Patient)
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Image:"), r.ImagePath)
	condition := r.Condition
	if condition == "" {
		condition = "(awaiting result)"
	}
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Condition:"), condition)
	if r.Confidence != nil {
		fmt.Fprintf(&b, "%s %.0f%%\n", labelStyle.Render("Confidence:"), *r.Confidence*100)
	}
	if r.Severity != "" {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Severity:"), styledSeverity(r.Severity))
	}
	fmt.Fprintf(&b, "%s %s", labelStyle.Render("Status:"), styledStatus(r.Status))
	if r.Notes != "" {
		fmt.Fprintf(&b, "\n%s %s", labelStyle.Render("Notes:"), r.Notes)
	}
	return b.String()
}

func (a *App) renderPatientDetail(u repository.User) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Patient") + "\n")
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Name:"), u.FullName)
	fmt.Fprintf(&b, "%s %s", labelStyle.Render("Email:"), u.Email)
	if u.Phone != nil {
		fmt.Fprintf(&b, "\n%s %s", labelStyle.Render("Phone:"), *u.Phone)
	}
	return b.String()
}

func (a *App) renderSessionDetail(r sessionRow) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Call Session") + "\n")
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Room:"), r.Room)
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Appointment:"), r.Appointment)
	fmt.Fprintf(&b, "%s %s", labelStyle.Render("Status:"), styledStatus(r.Status))
	if r.StartedAt != nil {
		fmt.Fprintf(&b, "\n%s %s", labelStyle.Render("Started:"), r.StartedAt.In(a.tz).Format("15:04:05"))
	}
	if r.EndedAt != nil {
		fmt.Fprintf(&b, "\n%s %s", labelStyle.Render("Ended:"), r.EndedAt.In(a.tz).Format("15:04:05"))
	}
	return b.String()
}
