package main

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fsend/internal/history"
)

func TestVersion(t *testing.T) {
	c := newCLI(t)
	res := c.run("", "version")
	assert.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, "dev")
}

func TestInvalidConfigQuits(t *testing.T) {
	c := newCLI(t)
	res := c.run("", "--host", "ftp://nope", "version")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "error: invalid configuration")
	assert.Contains(t, res.stderr, "For more information try '--help'")
}

func TestHistoryLifecycle(t *testing.T) {
	c := newCLI(t)

	res := c.run("", "history")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "No files in history")

	res = c.run("", "history", "add", "https://send.example.org/download/aaa111/#k1", "--owner", "tok1", "--expiry", "1d")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Added aaa111 to history")

	res = c.run("", "history", "add", "https://send.example.org/download/bbb222/#k2")
	require.Equal(t, 0, res.code, res.stderr)

	res = c.run("", "history")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "aaa111")
	assert.Contains(t, res.stdout, "bbb222")
	assert.Contains(t, res.stdout, "EXPIRY")

	res = c.run("", "history", "rm", "#1")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Removed aaa111 from history")

	res = c.run("", "history")
	assert.NotContains(t, res.stdout, "aaa111")
	assert.Contains(t, res.stdout, "bbb222")
}

func TestHistoryAdd_BadExpiry(t *testing.T) {
	c := newCLI(t)
	res := c.run("", "history", "add", "https://send.example.org/download/aaa111/", "--expiry", "soon")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "invalid duration")
}

func TestHistoryRemove_Unknown(t *testing.T) {
	c := newCLI(t)
	res := c.run("", "history", "rm", "#3")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "Use '--history <FILE>' to specify a history file")
}

func TestHistoryClear(t *testing.T) {
	c := newCLI(t)
	require.Equal(t, 0, c.run("", "history", "add", "https://send.example.org/download/aaa111/").code)

	t.Run("default no in no-interact mode", func(t *testing.T) {
		res := c.run("", "--no-interact", "history", "clear")
		require.Equal(t, 0, res.code, res.stderr)
		assert.Contains(t, res.stderr, "Clear the whole history? [y/N]: no")
		assert.Contains(t, res.stdout, "History left untouched")
	})

	t.Run("empty answer keeps default", func(t *testing.T) {
		res := c.run("\n", "history", "clear")
		require.Equal(t, 0, res.code, res.stderr)
		assert.Contains(t, res.stdout, "History left untouched")
	})

	t.Run("confirmed", func(t *testing.T) {
		res := c.run("yes\n", "history", "clear")
		require.Equal(t, 0, res.code, res.stderr)
		assert.Contains(t, res.stdout, "History cleared")
		assert.Contains(t, c.run("", "history").stdout, "No files in history")
	})
}

func TestHistory_Incognito(t *testing.T) {
	c := newCLI(t)
	res := c.run("", "--incognito", "history")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "history is disabled in incognito mode")
}

func TestHistoryPrune_Check(t *testing.T) {
	c := newCLI(t)
	srv := newSendServer(t)

	alive := srv.add("a1a1", &sendFile{owner: "o"})
	require.Equal(t, 0, c.run("", "history", "add", alive).code)
	require.Equal(t, 0, c.run("", "history", "add", srv.server.URL+"/download/b2b2/#x").code)

	res := c.run("", "history", "prune", "--check", "--jobs", "2")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Removed 1 file(s) from history")

	list := c.run("", "history").stdout
	assert.Contains(t, list, "a1a1")
	assert.NotContains(t, list, "b2b2")
}

func TestHistoryPrune_CheckKeepsUnparsableEntries(t *testing.T) {
	c := newCLI(t)
	srv := newSendServer(t)

	alive := srv.add("a1a1", &sendFile{owner: "o"})
	require.Equal(t, 0, c.run("", "history", "add", alive).code)

	store, err := history.Open(c.historyFile())
	require.NoError(t, err)
	require.NoError(t, store.Add(history.Entry{ID: "c3c3", URL: "ftp://broken/c3c3"}))
	require.NoError(t, store.Close())

	res := c.run("", "history", "prune", "--check")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Removed 0 file(s) from history")
	assert.Contains(t, res.stderr, "Skipped c3c3: its history URL is not a valid share link")

	list := c.run("", "history").stdout
	assert.Contains(t, list, "a1a1")
	assert.Contains(t, list, "c3c3")
}

func TestExists(t *testing.T) {
	c := newCLI(t)
	srv := newSendServer(t)
	link := srv.add("e1e1", &sendFile{owner: "o", password: true})

	res := c.run("", "exists", link)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Exists: yes")
	assert.Contains(t, res.stdout, "Password: yes")

	res = c.run("", "exists", srv.server.URL+"/download/ffff/")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Exists: no")
}

func TestExists_IgnoresUnneededPassword(t *testing.T) {
	c := newCLI(t)
	srv := newSendServer(t)
	link := srv.add("e1e1", &sendFile{owner: "o"})

	res := c.run("", "exists", link, "--password", "hunter2")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Ignoring password, it is not required")
}

func TestExists_ForgetsVanishedFile(t *testing.T) {
	c := newCLI(t)
	srv := newSendServer(t)

	require.Equal(t, 0, c.run("", "history", "add", srv.server.URL+"/download/gone1/#k").code)
	res := c.run("", "exists", "#1")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Exists: no")
	assert.Contains(t, c.run("", "history").stdout, "No files in history")
}

func TestInfo_OwnerFromHistory(t *testing.T) {
	c := newCLI(t)
	srv := newSendServer(t)
	link := srv.add("f0f0", &sendFile{owner: "secret-owner", dlimit: 5, dtotal: 2, ttlMillis: 86_400_000})

	require.Equal(t, 0, c.run("", "history", "add", link, "--owner", "secret-owner").code)

	res := c.run("", "--no-interact", "info", "f0f0")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "ID: f0f0")
	assert.Contains(t, res.stdout, "Downloads: 2 of 5")
	assert.Contains(t, res.stdout, "Expiry: 1d (86400s)")
}

func TestInfo_PromptsForOwnerToken(t *testing.T) {
	c := newCLI(t)
	srv := newSendServer(t)
	link := srv.add("f0f0", &sendFile{owner: "secret-owner", dlimit: 1, ttlMillis: 60_000})

	res := c.run("\nsecret-owner\n", "--incognito", "info", link)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "The file owner token is required for authentication.")
	assert.Contains(t, res.stderr, "Empty owner token given")
	assert.Contains(t, res.stdout, "Expiry: 1m (60s)")
}

func TestInfo_NoInteractWithoutOwner(t *testing.T) {
	c := newCLI(t)
	srv := newSendServer(t)
	link := srv.add("f0f0", &sendFile{owner: "secret-owner"})

	res := c.run("secret-owner\n", "--incognito", "--no-interact", "info", link)
	assert.Equal(t, 1, res.code)
	assert.NotContains(t, res.stdout, "owner token is required")
	assert.Contains(t, res.stderr, "missing owner token, must be specified in no-interact mode")
	assert.Contains(t, res.stderr, "Use '--owner <TOKEN>' to specify an owner token")
}

func TestInfo_WrongOwner(t *testing.T) {
	c := newCLI(t)
	srv := newSendServer(t)
	link := srv.add("f0f0", &sendFile{owner: "secret-owner"})

	res := c.run("", "info", link, "--owner", "wrong")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "error: failed to fetch file info")
	assert.Contains(t, res.stderr, "caused by: the owner token is invalid")
	assert.Contains(t, res.stderr, "--owner <TOKEN>")
}

func TestInfo_VerboseDropsVerboseHint(t *testing.T) {
	c := newCLI(t)
	srv := newSendServer(t)

	res := c.run("", "--verbose", "info", srv.server.URL+"/download/none/", "--owner", "x")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "the file has expired or did not exist")
	assert.NotContains(t, res.stderr, "For detailed errors try '--verbose'")
}

func TestDelete(t *testing.T) {
	c := newCLI(t)
	srv := newSendServer(t)
	link := srv.add("d1d1", &sendFile{owner: "o"})
	require.Equal(t, 0, c.run("", "history", "add", link, "--owner", "o").code)

	res := c.run("n\n", "delete", "d1d1")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Delete cancelled")
	_, exists := srv.file("d1d1")
	assert.True(t, exists)

	res = c.run("\n", "delete", "d1d1")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stderr, "Delete d1d1? [Y/n]: ")
	assert.Contains(t, res.stdout, "File deleted")
	_, exists = srv.file("d1d1")
	assert.False(t, exists)

	assert.Contains(t, c.run("", "history").stdout, "No files in history")
}

func TestDelete_AssumeYes(t *testing.T) {
	c := newCLI(t)
	srv := newSendServer(t)
	link := srv.add("d1d1", &sendFile{owner: "o"})

	res := c.run("", "--yes", "--no-interact", "delete", link, "--owner", "o")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stderr, "Delete d1d1? [Y/n]: yes")
	assert.Contains(t, res.stdout, "File deleted")
}

func TestParams(t *testing.T) {
	c := newCLI(t)
	srv := newSendServer(t)
	link := srv.add("p1p1", &sendFile{owner: "o", dlimit: 1})

	res := c.run("", "params", link, "--owner", "o", "--download-limit", "20")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Parameters updated")
	f, _ := srv.file("p1p1")
	assert.Equal(t, 20, f.dlimit)
}

func TestParams_InvalidLimit(t *testing.T) {
	c := newCLI(t)
	srv := newSendServer(t)
	link := srv.add("p1p1", &sendFile{owner: "o", dlimit: 1})

	res := c.run("", "params", link, "--owner", "o", "--download-limit", "7")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "download limit 7 is not supported")
	assert.Contains(t, res.stderr, "Use '--force' to force")

	res = c.run("", "--force", "params", link, "--owner", "o", "--download-limit", "7")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stderr, "warning: download limit 7 might not be supported")
	f, _ := srv.file("p1p1")
	assert.Equal(t, 7, f.dlimit)
}

func TestParams_NothingToChange(t *testing.T) {
	c := newCLI(t)
	res := c.run("", "params", "https://send.example.org/download/abc/")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "no parameters given to change")
}

func TestLink(t *testing.T) {
	c := newCLI(t)
	require.Equal(t, 0, c.run("", "history", "add", "https://send.example.org/download/l1l1/#key").code)

	var opened *url.URL
	var copied string
	origOpen, origCopy, origSupported := openURL, setClipboard, clipboardSupported
	openURL = func(u *url.URL) error { opened = u; return nil }
	setClipboard = func(s string) error { copied = s; return nil }
	clipboardSupported = func() bool { return true }
	t.Cleanup(func() { openURL, setClipboard, clipboardSupported = origOpen, origCopy, origSupported })

	res := c.run("", "link", "#1", "--open", "--copy")
	require.Equal(t, 0, res.code, res.stderr)

	want := "https://send.example.org/download/l1l1/#key"
	assert.Equal(t, want, strings.SplitN(res.stdout, "\n", 2)[0])
	require.NotNil(t, opened)
	assert.Equal(t, want, opened.String())
	assert.Equal(t, want, copied)
	assert.Contains(t, res.stdout, "Link copied to clipboard")
}

func TestLink_NoClipboard(t *testing.T) {
	c := newCLI(t)
	orig := clipboardSupported
	clipboardSupported = func() bool { return false }
	t.Cleanup(func() { clipboardSupported = orig })

	res := c.run("", "--incognito", "link", "https://send.example.org/download/l1l1/#key", "--copy")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "no clipboard available")
}

func TestLink_BareIDUsesHost(t *testing.T) {
	c := newCLI(t)
	res := c.run("", "--incognito", "--host", "https://files.example.net/", "link", "abc123")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "https://files.example.net/download/abc123/")
	assert.Contains(t, res.stderr, "warning: the link has no secret")
}

func TestDebug(t *testing.T) {
	c := newCLI(t)
	res := c.run("", "--host", "https://files.example.net/", "debug")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Host")
	assert.Contains(t, res.stdout, "files.example.net")
	assert.Contains(t, res.stdout, "Free space")
}
