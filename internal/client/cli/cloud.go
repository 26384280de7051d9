package cli

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/dkraev/mycolog/internal/client/syncer"
)

// Sync runs a cycle right now and reports the outcome.
func (a *App) Sync(ctx context.Context) error {
	a.scheduler.ForceSync(ctx)

	st := a.engine.Status()
	switch st.State {
	case syncer.StateSuccess:
		fmt.Println("Sync complete")
	case syncer.StateError:
		fmt.Printf("Sync failed: %s\n", st.Message)
	default:
		fmt.Printf("Sync state: %s\n", st.State)
	}
	return nil
}

// SyncStatus prints the sync configuration and the last outcome.
func (a *App) SyncStatus(ctx context.Context) error {
	dump := a.scheduler.DumpConfig(ctx)

	fmt.Printf("Cloud backend:  %s\n", onOff(dump.BackendConfigured, "configured", "not configured"))
	fmt.Printf("Cloud sync:     %s\n", onOff(dump.Enabled, "enabled", "disabled"))
	fmt.Printf("Connectivity:   %s\n", onOff(dump.Online, "online", "offline"))
	fmt.Printf("Status:         %s\n", dump.Status.State)
	if dump.Status.Message != "" {
		fmt.Printf("Last error:     %s\n", dump.Status.Message)
	}
	if dump.LastSync.IsZero() {
		fmt.Println("Last sync:      never")
	} else {
		fmt.Printf("Last sync:      %s\n", dump.LastSync.Format(time.RFC3339))
	}
	return nil
}

// CloudOn enables background sync.
func (a *App) CloudOn(ctx context.Context) error {
	if err := a.engine.SetEnabled(ctx, true); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	fmt.Println("Cloud sync enabled")
	return nil
}

// CloudOff disables background sync. Local edits keep accumulating and are
// reconciled when sync is enabled again.
func (a *App) CloudOff(ctx context.Context) error {
	if err := a.engine.SetEnabled(ctx, false); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	fmt.Println("Cloud sync disabled")
	return nil
}

func onOff(v bool, yes, no string) string {
	if v {
		return yes
	}
	return no
}
