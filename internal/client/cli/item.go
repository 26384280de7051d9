package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dkraev/mycolog/internal/client/models"
	"github.com/google/uuid"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Add records a new observation: species name, primary photo from a file
// path, free-form notes and any number of name=value fields.
func (a *App) Add(ctx context.Context) error {
	species, err := getSimpleText(a.reader, "Enter species name (or best guess)", os.Stdout)
	if err != nil {
		return err
	}
	if species == "" {
		return fmt.Errorf("species name is required")
	}

	photoPath, err := getSimpleText(a.reader, "Enter photo file path", os.Stdout)
	if err != nil {
		return err
	}
	photo, err := os.ReadFile(photoPath)
	if err != nil {
		log.Printf("error reading photo: %v", err)
		return err
	}

	notes, err := GetMultiline(a.reader, "Enter notes:", os.Stdout)
	if err != nil {
		return err
	}

	lines, err := GetFields(a.reader, os.Stdout)
	if err != nil {
		return err
	}
	detail, err := detailFromLines(lines)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	detail["species"] = species
	if notes != "" {
		detail["notes"] = notes
	}

	rec := &models.Record{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UnixMilli(),
		Photo:     photo,
		Meta:      map[string]any{"detail": detail},
	}

	if err := a.store.Records.Put(ctx, rec); err != nil {
		log.Printf("error: %v", err)
		return err
	}

	fmt.Printf("Recorded %s (%s)\n", species, rec.ID)
	return nil
}

// List prints one line per observation, newest first not guaranteed; order
// follows the local store.
func (a *App) List(ctx context.Context) error {
	recs, err := a.store.Records.List(ctx)
	if err != nil {
		log.Println(err.Error())
		return err
	}

	for _, rec := range recs {
		fmt.Println(formatRecordLine(rec))
	}
	return nil
}

// Show prints one observation in full.
func (a *App) Show(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter record id to show", os.Stdout)
	if err != nil {
		return err
	}

	rec, err := a.store.Records.Get(ctx, id)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	if rec == nil {
		fmt.Println("No such record")
		return nil
	}

	fmt.Printf("ID:      %s\n", rec.ID)
	fmt.Printf("Created: %s\n", time.UnixMilli(rec.CreatedAt).Format(time.RFC3339))
	fmt.Printf("Photo:   %d bytes (+%d extra)\n", len(rec.Photo), len(rec.ExtraPhotos))
	if rec.View != "" {
		fmt.Printf("View:    %s\n", rec.View)
	}
	if detail, ok := rec.Meta["detail"].(map[string]any); ok {
		for name, value := range detail {
			fmt.Printf("%s: %v\n", name, value)
		}
	}
	return nil
}

// Edit overlays new name=value fields onto an observation and stamps the
// edit time so the next sync pass re-uploads it.
func (a *App) Edit(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter record id to edit", os.Stdout)
	if err != nil {
		return err
	}

	rec, err := a.store.Records.Get(ctx, id)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	if rec == nil {
		fmt.Println("No such record")
		return nil
	}

	lines, err := GetFields(a.reader, os.Stdout)
	if err != nil {
		return err
	}
	updates, err := detailFromLines(lines)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	if len(updates) == 0 {
		fmt.Println("Nothing to change")
		return nil
	}

	rec.Touch(time.Now().UnixMilli())
	detail := rec.Meta["detail"].(map[string]any)
	for name, value := range updates {
		detail[name] = value
	}

	if err := a.store.Records.Put(ctx, rec); err != nil {
		log.Printf("error: %v", err)
		return err
	}

	fmt.Println("Updated")
	return nil
}

// Delete removes an observation from the local store. The cloud copy, if
// any, is left alone and will come back on the next sync.
func (a *App) Delete(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter record id to delete", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.store.Records.Delete(ctx, id); err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	fmt.Println("Deleted locally")
	return nil
}

// detailFromLines parses name=value lines into a detail map. Lines without
// '=' are rejected; values stay strings.
func detailFromLines(lines []string) (map[string]any, error) {
	detail := make(map[string]any, len(lines))
	for _, line := range lines {
		name, value, found := strings.Cut(line, "=")
		if !found || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid field %q, expected name=value", line)
		}
		detail[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	return detail, nil
}

func formatRecordLine(rec *models.Record) string {
	species := "(unidentified)"
	if detail, ok := rec.Meta["detail"].(map[string]any); ok {
		if s, ok := detail["species"].(string); ok && s != "" {
			species = s
		}
	}
	created := time.UnixMilli(rec.CreatedAt).Format("2006-01-02")
	return fmt.Sprintf("%s  %s  %s", rec.ID, created, species)
}
