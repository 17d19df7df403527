package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/smarthealth/internal/cli"
	"github.com/jwalitptl/smarthealth/internal/mockapi/mockapitest"
)

type result struct {
	out    string
	errOut string
	err    error
}

type harness struct {
	t   *testing.T
	env *mockapitest.Env
}

func newHarness(t *testing.T) *harness {
	t.Setenv("SMARTHEALTH_SESSION_STORE", "file")
	t.Setenv("SMARTHEALTH_SESSION_FILE", filepath.Join(t.TempDir(), "session.json"))
	t.Setenv("SMARTHEALTH_LOG_LEVEL", "error")
	t.Setenv("SMARTHEALTH_PAGE_SIZE", "6")
	return &harness{t: t, env: mockapitest.New(t, true)}
}

func (h *harness) run(stdin string, args ...string) result {
	h.t.Helper()
	var out, errOut bytes.Buffer
	cmd := cli.NewRootCommand(strings.NewReader(stdin), &out, &errOut)
	cmd.SetArgs(append([]string{"--api-url", h.env.BaseURL}, args...))
	err := cmd.ExecuteContext(context.Background())
	return result{out: out.String(), errOut: errOut.String(), err: err}
}

func (h *harness) login() {
	h.t.Helper()
	r := h.run("", "login", "--email", mockapitest.AdminEmail, "--password", mockapitest.AdminPassword)
	require.NoError(h.t, r.err, r.errOut)
}

func TestLoginWhoamiLogout(t *testing.T) {
	h := newHarness(t)

	r := h.run(mockapitest.AdminPassword+"\n", "login", "--email", mockapitest.AdminEmail)
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "Password: ")
	assert.Contains(t, r.out, "Logged in as SmartHealth Admin (ADMIN)")

	r = h.run("", "whoami")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, mockapitest.AdminEmail)
	assert.Contains(t, r.out, "ADMIN")

	r = h.run("", "logout")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "Logged out")

	r = h.run("", "whoami")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "Not logged in")
}

func TestLoginWithWrongPassword(t *testing.T) {
	h := newHarness(t)

	r := h.run("", "login", "--email", mockapitest.AdminEmail, "--password", "nope-nope")
	require.Error(t, r.err)
	assert.Equal(t, "Invalid email or password", cli.ErrorMessage(r.err))
}

func TestCommandsRequireLogin(t *testing.T) {
	h := newHarness(t)

	r := h.run("", "appointments", "list")
	require.Error(t, r.err)
	assert.Contains(t, cli.ErrorMessage(r.err), "not logged in")
}

func TestListAppointments(t *testing.T) {
	h := newHarness(t)
	h.login()

	r := h.run("", "appointments", "list")
	require.NoError(t, r.err, r.errOut)
	assert.Contains(t, r.out, "Page 1 of 3 (14 items) sorted by appointmentDate desc")
	lines := strings.Split(strings.TrimSpace(r.out), "\n")
	require.Len(t, lines, 8)
	assert.Contains(t, lines[1], "2024-03-14")

	r = h.run("", "appointments", "list", "--page", "3")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "Page 3 of 3 (14 items)")
	assert.Contains(t, r.out, "2024-03-01")

	r = h.run("", "appointments", "list", "--search", "fever")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, `(2 items) sorted by appointmentDate desc matching "fever"`)

	r = h.run("", "appointments", "list", "--filter", "status=CANCELLED", "--sort", "appointmentDate,asc")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "Page 1 of 1 (3 items) sorted by appointmentDate asc")
	assert.Contains(t, r.out, "CANCELLED")
}

func TestEmptyListOffersToClearFilters(t *testing.T) {
	h := newHarness(t)
	h.login()

	r := h.run("", "doctors", "list", "--search", "nobody-here")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "No results.")

	r = h.run("", "doctors", "list", "--filter", "specialty=Neurology")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "Filters are active")
}

func TestGetCreateUpdateDelete(t *testing.T) {
	h := newHarness(t)
	h.login()

	r := h.run("", "appointments", "create", "--patient", "3", "--doctor", "1", "--date", "2024-04-02", "--reason", "Migraine")
	require.NoError(t, r.err, r.errOut)
	assert.Contains(t, r.errOut, "Created appointment #15")
	assert.Contains(t, r.out, "Dr. Meera Shah")

	r = h.run("", "appointments", "create", "--patient", "3", "--doctor", "1", "--date", "2024-04-02")
	require.Error(t, r.err)
	assert.Equal(t, "Reason is required", cli.ErrorMessage(r.err))

	r = h.run("", "appointments", "update", "15", "--notes", "Bring scans")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "Bring scans")
	assert.Contains(t, r.out, "Migraine")

	r = h.run("", "appointments", "delete", "15", "--yes")
	require.NoError(t, r.err)
	assert.Contains(t, r.errOut, "Deleted appointment #15")

	r = h.run("", "appointments", "get", "15")
	require.Error(t, r.err)
	assert.Equal(t, "Appointment not found", cli.ErrorMessage(r.err))
}

func TestDeleteAsksForConfirmation(t *testing.T) {
	h := newHarness(t)
	h.login()

	r := h.run("n\n", "appointments", "delete", "14")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "Delete appointment #14? [y/N]")
	assert.Contains(t, r.errOut, "Cancelled")

	r = h.run("", "appointments", "get", "14")
	require.NoError(t, r.err)

	r = h.run("yes\n", "appointments", "delete", "14")
	require.NoError(t, r.err)
	assert.Contains(t, r.errOut, "Deleted appointment #14")
}

func TestAppointmentStatus(t *testing.T) {
	h := newHarness(t)
	h.login()

	r := h.run("", "appointments", "status", "1", "confirmed")
	require.NoError(t, r.err, r.errOut)
	assert.Contains(t, r.errOut, "Appointment #1 is now Confirmed")

	r = h.run("", "appointments", "status", "1", "LOST")
	require.Error(t, r.err)
}

func TestAdvanceAndAttachTestResult(t *testing.T) {
	h := newHarness(t)
	h.login()

	r := h.run("", "test-results", "advance", "1")
	require.NoError(t, r.err, r.errOut)
	assert.Contains(t, r.errOut, "Test result #1 is now In progress")

	r = h.run("", "test-results", "advance", "1")
	require.NoError(t, r.err)

	r = h.run("", "test-results", "advance", "1")
	require.Error(t, r.err)
	assert.Equal(t, "Test result #1 is already Completed", cli.ErrorMessage(r.err))

	report := filepath.Join(t.TempDir(), "CBC Report.pdf")
	require.NoError(t, os.WriteFile(report, []byte("%PDF-1.4"), 0o600))

	r = h.run("", "upload", report, "--attach", "1")
	require.NoError(t, r.err, r.errOut)
	assert.Contains(t, r.out, "lab/cbc_report.pdf")

	r = h.run("", "test-results", "get", "1")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "lab/cbc_report.pdf")
	assert.Contains(t, r.out, "Completed")
}

func TestPrescriptionMedications(t *testing.T) {
	h := newHarness(t)
	h.login()

	r := h.run("", "prescriptions", "create", "--appointment", "2", "--patient", "4", "--doctor", "2",
		"--diagnosis", "Eczema", "--medication", "Hydrocortisone:1%:twice daily:14 days")
	require.NoError(t, r.err, r.errOut)
	assert.Contains(t, r.out, "Hydrocortisone, 1%, twice daily, 14 days")

	r = h.run("", "prescriptions", "create", "--appointment", "2", "--patient", "4", "--doctor", "2",
		"--diagnosis", "Eczema", "--medication", "Hydrocortisone")
	require.Error(t, r.err)
	assert.Contains(t, cli.ErrorMessage(r.err), "expected name:dosage")

	r = h.run("", "prescriptions", "list", "--search", "aspirin")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "Amlodipine, Aspirin")
}

func TestRoleScopedUsers(t *testing.T) {
	h := newHarness(t)
	h.login()

	r := h.run("", "patients", "list")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "(4 items)")
	assert.NotContains(t, r.out, "Front Desk")

	r = h.run("", "staff", "status", "2", "blocked")
	require.NoError(t, r.err, r.errOut)
	assert.Contains(t, r.errOut, "Staff member #2 is now Blocked")

	r = h.run("", "login", "--email", mockapitest.StaffEmail, "--password", mockapitest.StaffPassword)
	require.Error(t, r.err)
	assert.Equal(t, "Account is not active", cli.ErrorMessage(r.err))
}

func TestRegisterAndChangePassword(t *testing.T) {
	h := newHarness(t)

	r := h.run("", "register", "--name", "Eve Adams", "--email", "eve@example.com",
		"--password", "Secret@123", "--confirm-password", "Secret@123")
	require.NoError(t, r.err, r.errOut)
	assert.Contains(t, r.out, "Registered eve@example.com")

	r = h.run("", "login", "--email", "eve@example.com", "--password", "Secret@123")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "(PATIENT)")

	r = h.run("", "password", "--current", "Secret@123", "--new", "Better@456", "--confirm", "Better@456")
	require.NoError(t, r.err, r.errOut)
	assert.Contains(t, r.out, "Password changed")

	r = h.run("", "login", "--email", "eve@example.com", "--password", "Better@456")
	require.NoError(t, r.err)
}

func TestBrowse(t *testing.T) {
	h := newHarness(t)
	h.login()

	r := h.run("n\nn\nn\ns\n/fever\nq\n", "browse", "appointments")
	require.NoError(t, r.err, r.errOut)

	assert.Contains(t, r.out, "Browsing appointments")
	assert.Contains(t, r.out, "Page 1 of 3 (14 items) sorted by appointmentDate desc")
	assert.Contains(t, r.out, "Page 2 of 3 (14 items)")
	assert.Contains(t, r.out, "Page 3 of 3 (14 items)")
	assert.Contains(t, r.errOut, "Already on the last page")
	assert.Contains(t, r.out, "Page 1 of 3 (14 items) sorted by appointmentDate asc")
	assert.Contains(t, r.out, `Page 1 of 1 (2 items) sorted by appointmentDate asc matching "fever"`)
}

func TestBrowseDeleteAndClear(t *testing.T) {
	h := newHarness(t)
	h.login()

	r := h.run("f status=CANCELLED\nd 12\ny\nf status=NOPE\nc\nq\n", "browse", "appointments")
	require.NoError(t, r.err, r.errOut)

	assert.Contains(t, r.out, "Page 1 of 1 (3 items)")
	assert.Contains(t, r.errOut, "Deleted appointment #12")
	assert.Contains(t, r.out, "Page 1 of 1 (2 items)")
	assert.Contains(t, r.out, "Filters are active, press c to clear them.")
	assert.Contains(t, r.out, "Page 1 of 3 (13 items)")
}

func TestBrowseUnknownResource(t *testing.T) {
	h := newHarness(t)
	h.login()

	r := h.run("", "browse", "invoices")
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), "unknown resource")
}
