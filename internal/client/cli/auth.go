package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/dkraev/mycolog/internal/client/repositories/settings"
	"github.com/dkraev/mycolog/internal/common"
)

// Register prompts the user for a username and password and attempts to
// create a new cloud account.
func (a *App) Register(ctx context.Context) error {
	if !a.auth.Configured() {
		fmt.Println("No cloud backend configured")
		return nil
	}

	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.auth.Register(ctx, userName, string(password)); err != nil {
		if errors.Is(err, common.ErrUserExists) {
			log.Printf("Username %q is taken", userName)
			return err
		}
		log.Printf("Registration unsuccessful: %s", err.Error())
		return err
	}

	fmt.Println("Success! You can now log in.")
	return nil
}

// Login prompts the user for credentials, exchanges them for a token and
// persists it. The sync scheduler picks the new identity up on its next
// cycle; no restart is needed.
func (a *App) Login(ctx context.Context) error {
	if !a.auth.Configured() {
		fmt.Println("No cloud backend configured")
		return nil
	}

	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	token, err := a.auth.Login(ctx, userName, string(password))
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			log.Printf("Login unsuccessful: wrong username or password")
		} else {
			log.Printf("Login unsuccessful: %s", err.Error())
		}
		return err
	}

	if err := a.store.Settings.Set(ctx, settings.KeyAuthToken, token); err != nil {
		log.Printf("error persisting token: %s", err.Error())
		return err
	}

	a.userName = userName
	log.Printf("Login successful")
	return nil
}

// Logout drops the stored token. Local records stay untouched.
func (a *App) Logout(ctx context.Context) error {
	if err := a.store.Settings.Delete(ctx, settings.KeyAuthToken); err != nil {
		return err
	}
	a.userName = ""
	fmt.Println("Logged out")
	return nil
}
