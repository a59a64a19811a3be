package models

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

/*
Column Mismatch Report Usage:

This file contains functionality to generate a report of database columns that aren't
accounted for as fields in the corresponding Go model structs.

To generate the report:

1. Set the environment variable: GENERATE_COLUMN_REPORT=true
2. Run the application: go run main.go

Example output:
=== COLUMN MISMATCH REPORT ===
--- Table: projects ---
Found 1 columns not accounted for in model:
  - legacy_slug

--- Table: technologies ---
All columns are accounted for in the model.

=== SUMMARY ===
Total mismatched columns across all tables: 1
*/

// modelMappings lists every table owned by this module with its model
var modelMappings = map[string]interface{}{
	"categories":           Category{},
	"technologies":         Technology{},
	"projects":             Project{},
	"project_technologies": ProjectTechnology{},
	"users":                User{},
}

// GenerateModels writes gorm/gen query helpers for the models to ./generated.
// The schema must already be migrated.
func GenerateModels(db *gorm.DB) error {
	if err := db.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("connecting to database: %w", err)
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
	g.ApplyBasic(
		Category{},
		Technology{},
		Project{},
		ProjectTechnology{},
		User{},
	)

	if _, err := GenerateColumnMismatchReport(os.Stdout, db); err != nil {
		return err
	}

	g.Execute()
	fmt.Println("Model generation complete!")
	return nil
}

// GenerateColumnMismatchReport writes a report of database columns that have no
// matching model field and returns how many it found
func GenerateColumnMismatchReport(out io.Writer, db *gorm.DB) (int, error) {
	fmt.Fprintln(out, "=== COLUMN MISMATCH REPORT ===")

	tables := make([]string, 0, len(modelMappings))
	for tableName := range modelMappings {
		tables = append(tables, tableName)
	}
	sort.Strings(tables)

	totalMismatches := 0
	for _, tableName := range tables {
		fmt.Fprintf(out, "\n--- Table: %s ---\n", tableName)

		if !db.Migrator().HasTable(tableName) {
			fmt.Fprintln(out, "Table does not exist yet (will be created during migration)")
			continue
		}

		dbColumns, err := getTableColumns(db, tableName)
		if err != nil {
			return totalMismatches, err
		}
		modelFields, err := getModelFields(db, modelMappings[tableName])
		if err != nil {
			return totalMismatches, err
		}

		mismatches := findColumnMismatches(dbColumns, modelFields)
		if len(mismatches) == 0 {
			fmt.Fprintln(out, "All columns are accounted for in the model.")
			continue
		}
		fmt.Fprintf(out, "Found %d columns not accounted for in model:\n", len(mismatches))
		for _, col := range mismatches {
			fmt.Fprintf(out, "  - %s\n", col)
		}
		totalMismatches += len(mismatches)
	}

	fmt.Fprintf(out, "\n=== SUMMARY ===\n")
	fmt.Fprintf(out, "Total mismatched columns across all tables: %d\n", totalMismatches)
	return totalMismatches, nil
}

// getTableColumns retrieves column names through the dialect's migrator, so it
// works on postgres and sqlite alike
func getTableColumns(db *gorm.DB, tableName string) ([]string, error) {
	columnTypes, err := db.Migrator().ColumnTypes(tableName)
	if err != nil {
		return nil, fmt.Errorf("error querying columns for table %s: %w", tableName, err)
	}
	columns := make([]string, 0, len(columnTypes))
	for _, ct := range columnTypes {
		columns = append(columns, ct.Name())
	}
	return columns, nil
}

// getModelFields returns the column names gorm maps the model's fields to
func getModelFields(db *gorm.DB, model interface{}) ([]string, error) {
	parsed, err := schema.Parse(model, &sync.Map{}, db.NamingStrategy)
	if err != nil {
		return nil, fmt.Errorf("parsing model %T: %w", model, err)
	}
	return parsed.DBNames, nil
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
	return mismatches
}

// GenerateColumnMismatchReportStandalone prints the report to stdout without touching the schema
func GenerateColumnMismatchReportStandalone(db *gorm.DB) error {
	if err := db.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	_, err := GenerateColumnMismatchReport(os.Stdout, db)
	return err
}
