package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/dmitrijs2005/nkitsi/internal/common"
	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool
	calls    []string
	args     [][]string
	err      error
}

func (f *fakeExec) record(name string) error {
	f.calls = append(f.calls, name)
	return f.err
}

func (f *fakeExec) isLoggedIn() bool                         { return f.loggedIn }
func (f *fakeExec) SignUp(ctx context.Context) error         { return f.record("signup") }
func (f *fakeExec) Confirm(ctx context.Context) error        { return f.record("confirm") }
func (f *fakeExec) Resend(ctx context.Context) error         { return f.record("resend") }
func (f *fakeExec) Login(ctx context.Context) error          { return f.record("login") }
func (f *fakeExec) WhoAmI(ctx context.Context) error         { return f.record("whoami") }
func (f *fakeExec) Refresh(ctx context.Context) error        { return f.record("refresh") }
func (f *fakeExec) ChangePassword(ctx context.Context) error { return f.record("passwd") }
func (f *fakeExec) Forgot(ctx context.Context) error         { return f.record("forgot") }
func (f *fakeExec) Reset(ctx context.Context) error          { return f.record("reset") }
func (f *fakeExec) Logout(ctx context.Context) error         { return f.record("logout") }
func (f *fakeExec) Add(ctx context.Context) error            { return f.record("add") }
func (f *fakeExec) List(ctx context.Context) error           { return f.record("list") }
func (f *fakeExec) Clear(ctx context.Context) error          { return f.record("clear") }

func (f *fakeExec) Remove(ctx context.Context, args []string) error {
	f.args = append(f.args, args)
	return f.record("remove")
}

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	orig := printlnFn
	t.Cleanup(func() { printlnFn = orig })

	var lines []string
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	return &lines
}

func TestRunREPL_Dispatch(t *testing.T) {
	captureOutput(t)
	f := &fakeExec{}
	input := "signup\nregister\nconfirm\nresend\nlogin\nwhoami\nrefresh\npasswd\nforgot\nreset\nlogout\nadd\nl\nlist\nrm 42\nclear\n\n"

	runREPL(context.Background(), f, func() string { return "" }, bufio.NewReader(strings.NewReader(input)))

	assert.Equal(t, []string{
		"signup", "signup", "confirm", "resend", "login", "whoami", "refresh", "passwd",
		"forgot", "reset", "logout", "add", "list", "list", "remove", "clear",
	}, f.calls)
	assert.Equal(t, [][]string{{"42"}}, f.args)
}

func TestRunREPL_ExitStopsReading(t *testing.T) {
	out := captureOutput(t)
	f := &fakeExec{}

	runREPL(context.Background(), f, func() string { return "(bob online) " }, bufio.NewReader(strings.NewReader("exit\nlist\n")))

	assert.Empty(t, f.calls)
	assert.Equal(t, "nkitsi (bob online) > ", (*out)[0])
	assert.Contains(t, *out, "Bye!")
}

func TestRunREPL_Help(t *testing.T) {
	out := captureOutput(t)

	runREPL(context.Background(), &fakeExec{}, func() string { return "" }, bufio.NewReader(strings.NewReader("help\n")))
	assert.Contains(t, strings.Join(*out, "\n"), "signup, confirm")

	*out = nil
	runREPL(context.Background(), &fakeExec{loggedIn: true}, func() string { return "" }, bufio.NewReader(strings.NewReader("help\n")))
	assert.Contains(t, strings.Join(*out, "\n"), "whoami, refresh, passwd, logout")
}

func TestRunREPL_ReportsErrorsAndContinues(t *testing.T) {
	out := captureOutput(t)
	f := &fakeExec{err: common.NewError(common.KindStorage, common.ErrCredentialsUnavailable, "Credentials unavailable").WithDetail("no S3 credentials")}

	runREPL(context.Background(), f, func() string { return "" }, bufio.NewReader(strings.NewReader("add\nfoo\nlist\n")))

	assert.Equal(t, []string{"add", "list"}, f.calls)
	joined := strings.Join(*out, "\n")
	assert.Contains(t, joined, "Error: Credentials unavailable (no S3 credentials)")
	assert.Contains(t, joined, "Unknown command: foo")
}

func TestDescribeError(t *testing.T) {
	assert.Equal(t, "Error: boom", describeError(errors.New("boom")))
	assert.Equal(t, "Error: Network error (dial tcp: refused)",
		describeError(common.NewError(common.KindTransport, common.ErrTransport, "Network error").WithDetail("dial tcp: refused")))
}
