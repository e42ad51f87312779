//go:build e2e

package e2e

import (
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/require"
)

type TestServer struct {
	Addr      string
	AdminAddr string
	BaseURL   string
	DBPath    string
	Cmd       *exec.Cmd
}

func getFreePort(t *testing.T) int {
	addr, err := net.ResolveTCPAddr("tcp", "localhost:0")
	require.NoError(t, err)

	l, err := net.ListenTCP("tcp", addr)
	require.NoError(t, err)
	defer func() { _ = l.Close() }()
	return l.Addr().(*net.TCPAddr).Port
}

func (s *TestServer) env() []string {
	return append(os.Environ(),
		fmt.Sprintf("CATALYST_ADDR=%s", s.Addr),
		fmt.Sprintf("CATALYST_ADMIN_ADDR=%s", s.AdminAddr),
		fmt.Sprintf("CATALYST_DB=%s", s.DBPath),
		"CATALYST_LOGIN_BURST=100",
	)
}

func startServer(t *testing.T) *TestServer {
	s := &TestServer{
		Addr:      fmt.Sprintf("localhost:%d", getFreePort(t)),
		AdminAddr: fmt.Sprintf("localhost:%d", getFreePort(t)),
		DBPath:    filepath.Join(t.TempDir(), "catalyst-e2e.db"),
	}
	s.BaseURL = "http://" + s.Addr

	s.Cmd = exec.Command(serverBinPath)
	s.Cmd.Env = s.env()

	// Redirect output to stdout/stderr for debugging if needed
	// s.Cmd.Stdout = os.Stdout
	// s.Cmd.Stderr = os.Stderr

	require.NoError(t, s.Cmd.Start())

	// Wait for server to be ready
	require.Eventually(t, func() bool {
		conn, err := net.DialTimeout("tcp", s.Addr, 100*time.Millisecond)
		if err == nil {
			_ = conn.Close()
			return true
		}
		return false
	}, 5*time.Second, 200*time.Millisecond, "Server failed to start")

	return s
}

func (s *TestServer) Stop() {
	if s.Cmd != nil && s.Cmd.Process != nil {
		_ = s.Cmd.Process.Kill()
		_ = s.Cmd.Wait()
	}
}

// ListRooms runs the -list-rooms command against the server.
func (s *TestServer) ListRooms(t *testing.T) string {
	cmd := exec.Command(serverBinPath, "-list-rooms")
	cmd.Env = s.env()

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "Failed to list rooms via CLI: %s", string(output))
	return string(output)
}

func setupPlaywright(t *testing.T) (*playwright.Playwright, playwright.Browser) {
	pw, err := playwright.Run()
	require.NoError(t, err)

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	require.NoError(t, err)

	return pw, browser
}

func createBrowserContext(t *testing.T, browser playwright.Browser) playwright.BrowserContext {
	context, err := browser.NewContext()
	require.NoError(t, err)
	return context
}

func login(t *testing.T, page playwright.Page, baseURL, email string) {
	_, err := page.Goto(baseURL + "/")
	require.NoError(t, err)

	require.NoError(t, page.Locator("input[name='email']").Fill(email))
	require.NoError(t, page.Locator("input[name='password']").Fill("password123"))
	require.NoError(t, page.Locator("button[type='submit']").Click())

	require.NoError(t, page.WaitForURL(baseURL+"/dashboard"))
}
