package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"fsend/internal/console"
	"fsend/internal/history"
	"fsend/internal/logging"
	"fsend/internal/sendapi"
)

// openHistory opens the history store. It returns nil without error in
// incognito mode.
func openHistory() (*history.Store, error) {
	if cfg.Incognito {
		return nil, nil
	}
	store, err := history.Open(cfg.History, history.WithLogger(logging.Get(logging.CategoryHistory)))
	if err != nil {
		return nil, withHints(err, console.ErrorHints{History: true, Verbose: true, Help: true})
	}
	return store, nil
}

// requireHistory is openHistory for commands that cannot work without it.
func requireHistory() (*history.Store, error) {
	if cfg.Incognito {
		return nil, withHints(errors.New("history is disabled in incognito mode"), console.ErrorHints{Help: true})
	}
	return openHistory()
}

// withStore runs fn against the history when it is available. Failures are
// reported as warnings since history is a convenience for these callers.
func withStore(fn func(*history.Store) error) {
	store, err := openHistory()
	if err != nil {
		con.PrintWarning(fmt.Sprintf("failed to open history, ignoring: %v", err))
		return
	}
	if store == nil {
		return
	}
	defer store.Close()

	if err := fn(store); err != nil {
		con.PrintWarning(fmt.Sprintf("failed to update history, ignoring: %v", err))
	}
}

// remember records a file in history.
func remember(share *sendapi.ShareURL, owner string, ttl time.Duration) {
	withStore(func(store *history.Store) error {
		entry := history.Entry{ID: share.ID, URL: share.String(), OwnerToken: owner}
		if ttl > 0 {
			entry.ExpiresAt = time.Now().Add(ttl)
		}
		return store.Add(entry)
	})
}

// forget drops a file from history, typically because the server no longer
// has it.
func forget(share *sendapi.ShareURL) {
	withStore(func(store *history.Store) error {
		removed, err := store.Remove(share.ID)
		if removed {
			logging.Get(logging.CategoryHistory).Debug("forgot vanished file", zap.String("id", share.ID))
		}
		return err
	})
}

// resolveShare turns a command argument into a share URL. The argument is a
// share URL, a history reference (#N or file ID) or a bare file ID on the
// configured host.
func resolveShare(ref string) (*sendapi.ShareURL, *history.Entry, error) {
	if strings.Contains(ref, "://") {
		share, err := sendapi.ParseShareURL(ref)
		if err != nil {
			return nil, nil, err
		}
		var found *history.Entry
		withStore(func(store *history.Store) error {
			if e, err := store.Get(share.ID); err == nil {
				found = &e
			}
			return nil
		})
		if share.Secret == "" && found != nil {
			if full, err := sendapi.ParseShareURL(found.URL); err == nil {
				share.Secret = full.Secret
			}
		}
		return share, found, nil
	}

	var (
		found     *history.Entry
		lookupErr error
	)
	withStore(func(store *history.Store) error {
		e, err := store.Lookup(ref)
		if err == nil {
			found = &e
		} else if !errors.Is(err, history.ErrNotFound) {
			lookupErr = err
		}
		return nil
	})
	if lookupErr != nil {
		return nil, nil, lookupErr
	}
	if found != nil {
		share, err := sendapi.ParseShareURL(found.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("history entry %s has a broken URL: %w", found.ID, err)
		}
		return share, found, nil
	}

	if strings.HasPrefix(ref, "#") {
		return nil, nil, fmt.Errorf("no history entry %s: %w", ref, history.ErrNotFound)
	}
	share, err := sendapi.ParseShareURL(strings.TrimRight(cfg.Host, "/") + "/download/" + ref + "/")
	if err != nil {
		return nil, nil, fmt.Errorf("%q is neither a share URL nor a known file: %w", ref, err)
	}
	return share, nil, nil
}

// ownerToken picks the owner token from the --owner flag, then history,
// then the user.
func ownerToken(ownerSet bool, entry *history.Entry) string {
	if ownerSet {
		token := ownerFlag
		return con.EnsureOwnerToken(&token)
	}
	if entry != nil && entry.OwnerToken != "" {
		return entry.OwnerToken
	}
	return con.EnsureOwnerToken(nil)
}

func apiClient() *sendapi.Client {
	return sendapi.NewClient(cfg.GetTimeout(), logging.Get(logging.CategoryAPI))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
