package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jwalitptl/smarthealth/internal/client"
	"github.com/jwalitptl/smarthealth/internal/model"
	"github.com/jwalitptl/smarthealth/internal/service/appointment"
	"github.com/jwalitptl/smarthealth/internal/service/doctor"
	"github.com/jwalitptl/smarthealth/internal/service/prescription"
	"github.com/jwalitptl/smarthealth/internal/service/testresult"
	"github.com/jwalitptl/smarthealth/internal/service/user"
	apperrors "github.com/jwalitptl/smarthealth/pkg/errors"
	"github.com/jwalitptl/smarthealth/pkg/listing"
	"github.com/jwalitptl/smarthealth/pkg/validator"
)

// definition is one collection exposed as a command group and a browse screen
type definition interface {
	browser
	command(a *App) *cobra.Command
	name() string
	aliasNames() []string
}

func definitions() []definition {
	return []definition{
		appointments(),
		doctors(),
		testResults(),
		prescriptions(),
		users("users", nil, "user", "", user.NewUsers),
		users("patients", []string{"patient"}, "patient", model.RolePatient, user.NewPatients),
		users("staff", nil, "staff member", model.RoleStaff, user.NewStaff),
	}
}

// resources returns the command group of every collection
func resources(a *App) []*cobra.Command {
	defs := definitions()
	cmds := make([]*cobra.Command, len(defs))
	for i, d := range defs {
		cmds[i] = d.command(a)
	}
	return cmds
}

func appointments() *resourceDef[model.Appointment, model.CreateAppointmentRequest, model.UpdateAppointmentRequest] {
	return &resourceDef[model.Appointment, model.CreateAppointmentRequest, model.UpdateAppointmentRequest]{
		use:     "appointments",
		aliases: []string{"appointment", "appt"},
		short:   "Manage appointments",
		noun:    "appointment",
		service: func(a *App) crud[model.Appointment, model.CreateAppointmentRequest, model.UpdateAppointmentRequest] {
			return a.appointments()
		},
		sort:    appointment.DefaultSort,
		filters: appointment.DefaultFilters,
		id:      func(v model.Appointment) int64 { return v.ID },
		columns: []column[model.Appointment]{
			col("ID", func(v model.Appointment) string { return fmtID(v.ID) }),
			col("DATE", func(v model.Appointment) string { return strings.TrimSpace(v.AppointmentDate + " " + v.AppointmentTime) }),
			col("PATIENT", func(v model.Appointment) string { return v.PatientName }),
			col("DOCTOR", func(v model.Appointment) string { return v.DoctorName }),
			col("REASON", func(v model.Appointment) string { return v.Reason }),
			col("STATUS", func(v model.Appointment) string { return badge(string(v.Status)) }),
		},
		fields: func(v model.Appointment) []field {
			return []field{
				{"ID", fmtID(v.ID)},
				{"Patient", fmt.Sprintf("%s (#%d)", v.PatientName, v.PatientID)},
				{"Doctor", fmt.Sprintf("%s (#%d)", v.DoctorName, v.DoctorID)},
				{"Date", v.AppointmentDate},
				{"Time", v.AppointmentTime},
				{"Reason", v.Reason},
				{"Notes", v.Notes},
				{"Status", badge(string(v.Status))},
			}
		},
		createFlags: func(cmd *cobra.Command) func() (model.CreateAppointmentRequest, error) {
			var req model.CreateAppointmentRequest
			fs := cmd.Flags()
			fs.Int64Var(&req.PatientID, "patient", 0, "Patient id")
			fs.Int64Var(&req.DoctorID, "doctor", 0, "Doctor id")
			fs.StringVar(&req.AppointmentDate, "date", "", "Date as YYYY-MM-DD")
			fs.StringVar(&req.AppointmentTime, "time", "", "Time as HH:MM")
			fs.StringVar(&req.Reason, "reason", "", "Reason for the visit")
			fs.StringVar(&req.Notes, "notes", "", "Notes")
			return func() (model.CreateAppointmentRequest, error) { return req, nil }
		},
		updateFlags: func(cmd *cobra.Command) func() (model.UpdateAppointmentRequest, error) {
			var date, tm, reason, notes, status string
			fs := cmd.Flags()
			fs.StringVar(&date, "date", "", "Date as YYYY-MM-DD")
			fs.StringVar(&tm, "time", "", "Time as HH:MM")
			fs.StringVar(&reason, "reason", "", "Reason for the visit")
			fs.StringVar(&notes, "notes", "", "Notes")
			fs.StringVar(&status, "status", "", "PENDING, CONFIRMED, COMPLETED or CANCELLED")
			return func() (model.UpdateAppointmentRequest, error) {
				return model.UpdateAppointmentRequest{
					AppointmentDate: optional(cmd, "date", date),
					AppointmentTime: optional(cmd, "time", tm),
					Reason:          optional(cmd, "reason", reason),
					Notes:           optional(cmd, "notes", notes),
					Status:          optional(cmd, "status", model.AppointmentStatus(strings.ToUpper(status))),
				}, nil
			}
		},
		extra: func(a *App, d *resourceDef[model.Appointment, model.CreateAppointmentRequest, model.UpdateAppointmentRequest]) []*cobra.Command {
			return []*cobra.Command{appointmentStatusCmd(a, d)}
		},
	}
}

// appointmentStatusCmd changes status with an optimistic hint on the list
func appointmentStatusCmd(a *App, d *resourceDef[model.Appointment, model.CreateAppointmentRequest, model.UpdateAppointmentRequest]) *cobra.Command {
	return &cobra.Command{
		Use:   "status ID STATUS",
		Short: "Move an appointment to a new status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			status := model.AppointmentStatus(strings.ToUpper(args[1]))
			if err := a.requireLogin(); err != nil {
				return err
			}

			ctx := cmd.Context()
			ctrl, err := d.controller(a, listFlags{})
			if err != nil {
				return err
			}
			defer ctrl.Close()
			if err := ctrl.Load(ctx); err != nil {
				return reported(err)
			}

			err = ctrl.OptimisticHint(ctx, id,
				func(v *model.Appointment) { v.Status = status },
				func(ctx context.Context) error {
					_, err := a.appointments().UpdateStatus(ctx, id, status)
					return err
				})
			if err != nil {
				return reported(err)
			}
			a.notify(listing.NoticeSuccess, fmt.Sprintf("Appointment #%d is now %s", id, model.BadgeFor(string(status)).Label))
			return nil
		},
	}
}

func doctors() *resourceDef[model.Doctor, model.CreateDoctorRequest, model.UpdateDoctorRequest] {
	return &resourceDef[model.Doctor, model.CreateDoctorRequest, model.UpdateDoctorRequest]{
		use:     "doctors",
		aliases: []string{"doctor"},
		short:   "Manage doctors",
		noun:    "doctor",
		service: func(a *App) crud[model.Doctor, model.CreateDoctorRequest, model.UpdateDoctorRequest] {
			return doctor.NewService(a.client, a.validator)
		},
		sort:    doctor.DefaultSort,
		filters: doctor.DefaultFilters,
		id:      func(v model.Doctor) int64 { return v.ID },
		columns: []column[model.Doctor]{
			col("ID", func(v model.Doctor) string { return fmtID(v.ID) }),
			col("NAME", func(v model.Doctor) string { return v.FullName }),
			col("SPECIALTY", func(v model.Doctor) string { return v.Specialty }),
			col("EMAIL", func(v model.Doctor) string { return v.Email }),
			col("STATUS", func(v model.Doctor) string { return badge(v.Status) }),
		},
		fields: func(v model.Doctor) []field {
			exp := ""
			if v.ExperienceYears > 0 {
				exp = fmt.Sprintf("%d years", v.ExperienceYears)
			}
			return []field{
				{"ID", fmtID(v.ID)},
				{"Name", v.FullName},
				{"Email", v.Email},
				{"Phone", v.Phone},
				{"Specialty", v.Specialty},
				{"Department", v.Department},
				{"Qualification", v.Qualification},
				{"Experience", exp},
				{"Status", badge(v.Status)},
			}
		},
		createFlags: func(cmd *cobra.Command) func() (model.CreateDoctorRequest, error) {
			var req model.CreateDoctorRequest
			fs := cmd.Flags()
			fs.StringVar(&req.FullName, "name", "", "Full name")
			fs.StringVar(&req.Email, "email", "", "Email")
			fs.StringVar(&req.Phone, "phone", "", "Phone number")
			fs.StringVar(&req.Specialty, "specialty", "", "Specialty")
			fs.StringVar(&req.Department, "department", "", "Department")
			fs.StringVar(&req.Qualification, "qualification", "", "Qualification")
			fs.IntVar(&req.ExperienceYears, "experience", 0, "Years of experience")
			return func() (model.CreateDoctorRequest, error) { return req, nil }
		},
		updateFlags: func(cmd *cobra.Command) func() (model.UpdateDoctorRequest, error) {
			var name, email, phone, specialty, department, qualification, status string
			var experience int
			fs := cmd.Flags()
			fs.StringVar(&name, "name", "", "Full name")
			fs.StringVar(&email, "email", "", "Email")
			fs.StringVar(&phone, "phone", "", "Phone number")
			fs.StringVar(&specialty, "specialty", "", "Specialty")
			fs.StringVar(&department, "department", "", "Department")
			fs.StringVar(&qualification, "qualification", "", "Qualification")
			fs.IntVar(&experience, "experience", 0, "Years of experience")
			fs.StringVar(&status, "status", "", "ACTIVE or INACTIVE")
			return func() (model.UpdateDoctorRequest, error) {
				return model.UpdateDoctorRequest{
					FullName:        optional(cmd, "name", name),
					Email:           optional(cmd, "email", email),
					Phone:           optional(cmd, "phone", phone),
					Specialty:       optional(cmd, "specialty", specialty),
					Department:      optional(cmd, "department", department),
					Qualification:   optional(cmd, "qualification", qualification),
					ExperienceYears: optional(cmd, "experience", experience),
					Status:          optional(cmd, "status", strings.ToUpper(status)),
				}, nil
			}
		},
	}
}

func testResults() *resourceDef[model.TestResult, model.CreateTestResultRequest, model.UpdateTestResultRequest] {
	return &resourceDef[model.TestResult, model.CreateTestResultRequest, model.UpdateTestResultRequest]{
		use:     "test-results",
		aliases: []string{"tests", "labs"},
		short:   "Manage lab test results",
		noun:    "test result",
		service: func(a *App) crud[model.TestResult, model.CreateTestResultRequest, model.UpdateTestResultRequest] {
			return a.testResults()
		},
		sort:    testresult.DefaultSort,
		filters: testresult.DefaultFilters,
		id:      func(v model.TestResult) int64 { return v.ID },
		columns: []column[model.TestResult]{
			col("ID", func(v model.TestResult) string { return fmtID(v.ID) }),
			col("PATIENT", func(v model.TestResult) string { return v.PatientName }),
			col("TEST", func(v model.TestResult) string { return v.TestType }),
			col("DATE", func(v model.TestResult) string { return v.TestDate }),
			col("REPORT", func(v model.TestResult) string { return v.FileName }),
			col("STATUS", func(v model.TestResult) string { return badge(string(v.Status)) }),
		},
		fields: func(v model.TestResult) []field {
			return []field{
				{"ID", fmtID(v.ID)},
				{"Appointment", fmtID(v.AppointmentID)},
				{"Patient", fmt.Sprintf("%s (#%d)", v.PatientName, v.PatientID)},
				{"Test", v.TestType},
				{"Date", v.TestDate},
				{"Result", v.Result},
				{"Notes", v.Notes},
				{"Report", v.FileName},
				{"Status", badge(string(v.Status))},
			}
		},
		createFlags: func(cmd *cobra.Command) func() (model.CreateTestResultRequest, error) {
			var req model.CreateTestResultRequest
			fs := cmd.Flags()
			fs.Int64Var(&req.AppointmentID, "appointment", 0, "Appointment id")
			fs.Int64Var(&req.PatientID, "patient", 0, "Patient id")
			fs.StringVar(&req.TestType, "type", "", "Test type, e.g. CBC")
			fs.StringVar(&req.TestDate, "date", "", "Date as YYYY-MM-DD")
			fs.StringVar(&req.Notes, "notes", "", "Notes")
			return func() (model.CreateTestResultRequest, error) { return req, nil }
		},
		updateFlags: func(cmd *cobra.Command) func() (model.UpdateTestResultRequest, error) {
			var result, notes, file string
			fs := cmd.Flags()
			fs.StringVar(&result, "result", "", "Result summary")
			fs.StringVar(&notes, "notes", "", "Notes")
			fs.StringVar(&file, "file", "", "Uploaded report file name")
			return func() (model.UpdateTestResultRequest, error) {
				return model.UpdateTestResultRequest{
					Result:   optional(cmd, "result", result),
					Notes:    optional(cmd, "notes", notes),
					FileName: optional(cmd, "file", file),
				}, nil
			}
		},
		extra: func(a *App, d *resourceDef[model.TestResult, model.CreateTestResultRequest, model.UpdateTestResultRequest]) []*cobra.Command {
			return []*cobra.Command{advanceCmd(a, d), attachCmd(a)}
		},
	}
}

// advanceCmd moves a test result one step along the lab queue
func advanceCmd(a *App, d *resourceDef[model.TestResult, model.CreateTestResultRequest, model.UpdateTestResultRequest]) *cobra.Command {
	return &cobra.Command{
		Use:   "advance ID",
		Short: "Move a test result to the next lab status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.requireLogin(); err != nil {
				return err
			}

			ctx := cmd.Context()
			svc := a.testResults()
			current, err := svc.Get(ctx, id)
			if err != nil {
				return err
			}
			next, ok := model.NextTestResultStatus(current.Status)
			if !ok {
				_, err := svc.Advance(ctx, id, current.Status)
				return err
			}

			ctrl, err := d.controller(a, listFlags{})
			if err != nil {
				return err
			}
			defer ctrl.Close()
			if err := ctrl.Load(ctx); err != nil {
				return reported(err)
			}
			err = ctrl.OptimisticHint(ctx, id,
				func(v *model.TestResult) { v.Status = next },
				func(ctx context.Context) error {
					_, err := svc.Advance(ctx, id, current.Status)
					return err
				})
			if err != nil {
				return reported(err)
			}
			a.notify(listing.NoticeSuccess, fmt.Sprintf("Test result #%d is now %s", id, model.BadgeFor(string(next)).Label))
			return nil
		},
	}
}

func attachCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "attach ID FILE_NAME",
		Short: "Link an uploaded report to a test result",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.requireLogin(); err != nil {
				return err
			}
			if _, err := a.testResults().AttachFile(cmd.Context(), id, args[1]); err != nil {
				return err
			}
			a.notify(listing.NoticeSuccess, fmt.Sprintf("Attached %s to test result #%d", args[1], id))
			return nil
		},
	}
}

func prescriptions() *resourceDef[model.Prescription, model.CreatePrescriptionRequest, model.UpdatePrescriptionRequest] {
	return &resourceDef[model.Prescription, model.CreatePrescriptionRequest, model.UpdatePrescriptionRequest]{
		use:     "prescriptions",
		aliases: []string{"prescription", "rx"},
		short:   "Manage prescriptions",
		noun:    "prescription",
		service: func(a *App) crud[model.Prescription, model.CreatePrescriptionRequest, model.UpdatePrescriptionRequest] {
			return prescription.NewService(a.client, a.validator)
		},
		sort:    prescription.DefaultSort,
		filters: prescription.DefaultFilters,
		id:      func(v model.Prescription) int64 { return v.ID },
		columns: []column[model.Prescription]{
			col("ID", func(v model.Prescription) string { return fmtID(v.ID) }),
			col("ISSUED", func(v model.Prescription) string { return v.IssuedDate }),
			col("PATIENT", func(v model.Prescription) string { return v.PatientName }),
			col("DOCTOR", func(v model.Prescription) string { return v.DoctorName }),
			col("DIAGNOSIS", func(v model.Prescription) string { return v.Diagnosis }),
			col("MEDICINES", func(v model.Prescription) string { return medicineNames(v.Medications) }),
			col("STATUS", func(v model.Prescription) string { return badge(string(v.Status)) }),
		},
		fields: func(v model.Prescription) []field {
			fields := []field{
				{"ID", fmtID(v.ID)},
				{"Appointment", fmtID(v.AppointmentID)},
				{"Patient", fmt.Sprintf("%s (#%d)", v.PatientName, v.PatientID)},
				{"Doctor", fmt.Sprintf("%s (#%d)", v.DoctorName, v.DoctorID)},
				{"Issued", v.IssuedDate},
				{"Diagnosis", v.Diagnosis},
				{"Notes", v.Notes},
				{"Status", badge(string(v.Status))},
			}
			for i, m := range v.Medications {
				fields = append(fields, field{fmt.Sprintf("Medicine %d", i+1), formatMedication(m)})
			}
			return fields
		},
		createFlags: func(cmd *cobra.Command) func() (model.CreatePrescriptionRequest, error) {
			var (
				req  model.CreatePrescriptionRequest
				meds []string
			)
			fs := cmd.Flags()
			fs.Int64Var(&req.AppointmentID, "appointment", 0, "Appointment id")
			fs.Int64Var(&req.PatientID, "patient", 0, "Patient id")
			fs.Int64Var(&req.DoctorID, "doctor", 0, "Doctor id")
			fs.StringVar(&req.Diagnosis, "diagnosis", "", "Diagnosis")
			fs.StringVar(&req.Notes, "notes", "", "Notes")
			fs.StringArrayVar(&meds, "medication", nil, "Medicine as name:dosage[:frequency[:duration]], repeatable")
			return func() (model.CreatePrescriptionRequest, error) {
				parsed, err := parseMedications(meds)
				if err != nil {
					return req, err
				}
				req.Medications = parsed
				return req, nil
			}
		},
		updateFlags: func(cmd *cobra.Command) func() (model.UpdatePrescriptionRequest, error) {
			var (
				diagnosis, notes, status string
				meds                     []string
			)
			fs := cmd.Flags()
			fs.StringVar(&diagnosis, "diagnosis", "", "Diagnosis")
			fs.StringVar(&notes, "notes", "", "Notes")
			fs.StringVar(&status, "status", "", "ACTIVE, COMPLETED or CANCELLED")
			fs.StringArrayVar(&meds, "medication", nil, "Replace medicines, name:dosage[:frequency[:duration]], repeatable")
			return func() (model.UpdatePrescriptionRequest, error) {
				parsed, err := parseMedications(meds)
				if err != nil {
					return model.UpdatePrescriptionRequest{}, err
				}
				return model.UpdatePrescriptionRequest{
					Diagnosis:   optional(cmd, "diagnosis", diagnosis),
					Notes:       optional(cmd, "notes", notes),
					Status:      optional(cmd, "status", model.PrescriptionStatus(strings.ToUpper(status))),
					Medications: parsed,
				}, nil
			}
		},
	}
}

func parseMedications(specs []string) ([]model.Medication, error) {
	var out []model.Medication
	for _, s := range specs {
		parts := strings.Split(s, ":")
		if len(parts) < 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
			return nil, apperrors.Precondition(fmt.Sprintf("Invalid medication %q, expected name:dosage", s))
		}
		m := model.Medication{
			MedicineName: strings.TrimSpace(parts[0]),
			Dosage:       strings.TrimSpace(parts[1]),
		}
		if len(parts) > 2 {
			m.Frequency = strings.TrimSpace(parts[2])
		}
		if len(parts) > 3 {
			m.Duration = strings.TrimSpace(strings.Join(parts[3:], ":"))
		}
		out = append(out, m)
	}
	return out, nil
}

func medicineNames(meds []model.Medication) string {
	names := make([]string, len(meds))
	for i, m := range meds {
		names[i] = m.MedicineName
	}
	return strings.Join(names, ", ")
}

func formatMedication(m model.Medication) string {
	parts := []string{m.MedicineName, m.Dosage}
	for _, p := range []string{m.Frequency, m.Duration} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// users builds one of the account collections. role is fixed for the
// role-scoped views and left to a flag on the users collection.
func users(use string, aliases []string, noun, role string, newService func(*client.Client, validator.Validator) *user.Service) *resourceDef[model.User, model.CreateUserRequest, model.UpdateUserRequest] {
	short := "Manage " + use
	return &resourceDef[model.User, model.CreateUserRequest, model.UpdateUserRequest]{
		use:     use,
		aliases: aliases,
		short:   short,
		noun:    noun,
		service: func(a *App) crud[model.User, model.CreateUserRequest, model.UpdateUserRequest] {
			return newService(a.client, a.validator)
		},
		sort: user.DefaultSort,
		filters: func() map[string]string {
			f := user.DefaultFilters()
			if role != "" {
				delete(f, "role")
			}
			return f
		},
		id: func(v model.User) int64 { return v.ID },
		columns: []column[model.User]{
			col("ID", func(v model.User) string { return fmtID(v.ID) }),
			col("NAME", func(v model.User) string { return v.FullName }),
			col("EMAIL", func(v model.User) string { return v.Email }),
			col("PHONE", func(v model.User) string { return v.Phone }),
			col("ROLE", func(v model.User) string { return v.Role }),
			col("STATUS", func(v model.User) string { return badge(v.Status) }),
		},
		fields: func(v model.User) []field {
			return []field{
				{"ID", fmtID(v.ID)},
				{"Name", v.FullName},
				{"Email", v.Email},
				{"Phone", v.Phone},
				{"Gender", v.Gender},
				{"Born", v.DateOfBirth},
				{"Address", v.Address},
				{"Role", v.Role},
				{"Status", badge(v.Status)},
			}
		},
		createFlags: func(cmd *cobra.Command) func() (model.CreateUserRequest, error) {
			var req model.CreateUserRequest
			fs := cmd.Flags()
			fs.StringVar(&req.FullName, "name", "", "Full name")
			fs.StringVar(&req.Email, "email", "", "Email")
			fs.StringVar(&req.Phone, "phone", "", "Phone number")
			fs.StringVar(&req.Gender, "gender", "", "MALE, FEMALE or OTHER")
			fs.StringVar(&req.DateOfBirth, "dob", "", "Date of birth as YYYY-MM-DD")
			fs.StringVar(&req.Address, "address", "", "Address")
			fs.StringVar(&req.Password, "password", "", "Initial password")
			if role == "" {
				fs.StringVar(&req.Role, "role", "", "ADMIN, DOCTOR, STAFF or PATIENT")
			}
			return func() (model.CreateUserRequest, error) {
				if role != "" {
					req.Role = role
				}
				req.Role = strings.ToUpper(req.Role)
				req.Gender = strings.ToUpper(req.Gender)
				return req, nil
			}
		},
		updateFlags: func(cmd *cobra.Command) func() (model.UpdateUserRequest, error) {
			var name, phone, gender, dob, address string
			fs := cmd.Flags()
			fs.StringVar(&name, "name", "", "Full name")
			fs.StringVar(&phone, "phone", "", "Phone number")
			fs.StringVar(&gender, "gender", "", "MALE, FEMALE or OTHER")
			fs.StringVar(&dob, "dob", "", "Date of birth as YYYY-MM-DD")
			fs.StringVar(&address, "address", "", "Address")
			return func() (model.UpdateUserRequest, error) {
				return model.UpdateUserRequest{
					FullName:    optional(cmd, "name", name),
					Phone:       optional(cmd, "phone", phone),
					Gender:      optional(cmd, "gender", strings.ToUpper(gender)),
					DateOfBirth: optional(cmd, "dob", dob),
					Address:     optional(cmd, "address", address),
				}, nil
			}
		},
		extra: func(a *App, d *resourceDef[model.User, model.CreateUserRequest, model.UpdateUserRequest]) []*cobra.Command {
			return []*cobra.Command{userStatusCmd(a, noun, newService)}
		},
	}
}

func userStatusCmd(a *App, noun string, newService func(*client.Client, validator.Validator) *user.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "status ID STATUS",
		Short: "Activate, deactivate or block an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.requireLogin(); err != nil {
				return err
			}
			status := strings.ToUpper(args[1])
			if _, err := newService(a.client, a.validator).SetStatus(cmd.Context(), id, status); err != nil {
				return err
			}
			a.notify(listing.NoticeSuccess, fmt.Sprintf("%s #%d is now %s", capitalize(noun), id, model.BadgeFor(status).Label))
			return nil
		},
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (a *App) appointments() *appointment.Service {
	return appointment.NewService(a.client, a.validator)
}

func (a *App) testResults() *testresult.Service {
	return testresult.NewService(a.client, a.validator)
}
