package models

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

/*
Schema tooling:

  AUTO_MIGRATE=true            migrate on startup (default)
  GENERATE_MODELS=true         migrate, write query helpers to ./generated, print the report, exit
  GENERATE_COLUMN_REPORT=true  print the report only, exit

The report lists columns that exist in the database but are not mapped by the
Go model, for example leftovers from an earlier schema:

	=== COLUMN MISMATCH REPORT ===
	--- Table: projects ---
	Found 1 columns not accounted for in model:
	  - gif_link
*/

// All returns one zero value of every persisted model.
func All() []any {
	return []any{
		&AdminUser{},
		&Project{},
		&Certificate{},
		&SkillCategory{},
		&ContactMessage{},
	}
}

// Migrate creates or alters every table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// GenerateModels migrates the schema and writes typed query helpers.
func GenerateModels(db *gorm.DB, out io.Writer) error {
	migrateDB := db.Session(&gorm.Session{
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
	})

	log.Info().Msg("Migrating models...")
	if err := Migrate(migrateDB); err != nil {
		return err
	}

	if _, err := GenerateColumnMismatchReport(db, out); err != nil {
		return err
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:           "./generated",
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(All()...)
	g.Execute()

	log.Info().Msg("Model generation complete")
	return nil
}

// GenerateColumnMismatchReport writes the report to out and returns the
// unmapped columns per table.
func GenerateColumnMismatchReport(db *gorm.DB, out io.Writer) (map[string][]string, error) {
	fmt.Fprintln(out, "=== COLUMN MISMATCH REPORT ===")

	cache := &sync.Map{}
	result := make(map[string][]string)
	totalMismatches := 0

	for _, model := range All() {
		s, err := schema.Parse(model, cache, db.NamingStrategy)
		if err != nil {
			return nil, fmt.Errorf("parse schema: %w", err)
		}

		fmt.Fprintf(out, "\n--- Table: %s ---\n", s.Table)

		if !db.Migrator().HasTable(model) {
			fmt.Fprintln(out, "Table does not exist yet (will be created during migration)")
			continue
		}

		columnTypes, err := db.Migrator().ColumnTypes(model)
		if err != nil {
			return nil, fmt.Errorf("columns of %s: %w", s.Table, err)
		}
		dbColumns := make([]string, 0, len(columnTypes))
		for _, ct := range columnTypes {
			dbColumns = append(dbColumns, ct.Name())
		}

		mismatches := findColumnMismatches(dbColumns, s.DBNames)
		if len(mismatches) == 0 {
			fmt.Fprintln(out, "All columns are accounted for in the model.")
			continue
		}

		result[s.Table] = mismatches
		fmt.Fprintf(out, "Found %d columns not accounted for in model:\n", len(mismatches))
		for _, col := range mismatches {
			fmt.Fprintf(out, "  - %s\n", col)
		}
		totalMismatches += len(mismatches)
	}

	fmt.Fprintf(out, "\n=== SUMMARY ===\n")
	fmt.Fprintf(out, "Total mismatched columns across all tables: %d\n", totalMismatches)
	return result, nil
}

// findColumnMismatches finds columns that exist in the database but not in the model
func findColumnMismatches(dbColumns, modelFields []string) []string {
	modelFieldSet := make(map[string]bool, len(modelFields))
	for _, field := range modelFields {
		modelFieldSet[field] = true
	}

	var mismatches []string
	for _, col := range dbColumns {
		if !modelFieldSet[col] {
			mismatches = append(mismatches, col)
		}
	}
	sort.Strings(mismatches)
	return mismatches
}
