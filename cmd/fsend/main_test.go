package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"fsend/internal/config"
	"fsend/internal/console"
)

type exitCode int

type result struct {
	stdout string
	stderr string
	code   int
}

// resetFlags restores every flag to its default so runs do not leak into
// each other through the package-level command tree.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		config.EnvHost, config.EnvHistory, config.EnvTimeout, config.EnvNoInteract,
		config.EnvYes, config.EnvForce, config.EnvIncognito, config.EnvVerbose,
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

// cli runs fsend against a private config and history in dir.
type cli struct {
	t   *testing.T
	dir string
}

func newCLI(t *testing.T) *cli {
	clearEnv(t)
	return &cli{t: t, dir: t.TempDir()}
}

func (c *cli) historyFile() string {
	return filepath.Join(c.dir, "history.db")
}

// run executes fsend with args, feeding stdin to prompts. Code is the exit
// code the console asked for, 0 when the command returned normally.
func (c *cli) run(stdin string, args ...string) result {
	c.t.Helper()

	var out, errOut bytes.Buffer
	resetFlags(rootCmd)
	consoleOptions = []console.Option{
		console.WithInput(strings.NewReader(stdin)),
		console.WithOutput(&out, &errOut),
		console.WithExit(func(code int) { panic(exitCode(code)) }),
		console.WithPasswordReader(func() (string, error) { return "typed-password", nil }),
	}
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	defer func() {
		consoleOptions = nil
		con = nil
		cfg = nil
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()

	base := []string{"--config", filepath.Join(c.dir, "config.yaml"), "--history", c.historyFile()}
	rootCmd.SetArgs(append(base, args...))

	res := result{}
	func() {
		defer func() {
			if r := recover(); r != nil {
				code, ok := r.(exitCode)
				if !ok {
					panic(r)
				}
				res.code = int(code)
			}
		}()
		execute()
	}()

	res.stdout = out.String()
	res.stderr = errOut.String()
	return res
}

// sendServer is a minimal Send server holding files keyed by ID.
type sendServer struct {
	mu     sync.Mutex
	files  map[string]*sendFile
	server *httptest.Server
}

type sendFile struct {
	owner     string
	password  bool
	dlimit    int
	dtotal    int
	ttlMillis int64
}

func newSendServer(t *testing.T) *sendServer {
	s := &sendServer{files: make(map[string]*sendFile)}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/exists/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		f, ok := s.files[r.PathValue("id")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]bool{"requiresPassword": f.password})
	})
	mux.HandleFunc("POST /api/{action}/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		id := r.PathValue("id")
		f, ok := s.files[id]
		if !ok {
			http.NotFound(w, r)
			return
		}
		var req struct {
			OwnerToken string `json:"owner_token"`
			DLimit     int    `json:"dlimit"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.OwnerToken != f.owner {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		switch r.PathValue("action") {
		case "info":
			_ = json.NewEncoder(w).Encode(map[string]int64{
				"dlimit": int64(f.dlimit), "dtotal": int64(f.dtotal), "ttl": f.ttlMillis,
			})
		case "delete":
			delete(s.files, id)
		case "params":
			f.dlimit = req.DLimit
		default:
			http.NotFound(w, r)
		}
	})

	s.server = httptest.NewServer(mux)
	t.Cleanup(s.server.Close)
	return s
}

func (s *sendServer) add(id string, f *sendFile) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[id] = f
	return s.server.URL + "/download/" + id + "/#secretkey"
}

func (s *sendServer) file(id string) (sendFile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.files[id]
	if !ok {
		return sendFile{}, false
	}
	return *f, true
}
