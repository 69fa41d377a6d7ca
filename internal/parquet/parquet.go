// Package parquet provides data structures and functions for exporting
// activity analytics to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"
	"github.com/wikireflex/reflex/schema"
)

// ProjectActivity is the flat export form of one project's activity matrix
// record: the rollup totals plus one row per namespace counter.
type ProjectActivity struct {
	// ProjectID is the unique identifier of the project
	ProjectID int64 `parquet:"p_id,snappy"`

	// Title is the project title
	Title string `parquet:"p_title,snappy"`

	// Created is the raw creation datetime of the project
	Created string `parquet:"p_created,snappy"`

	// Namespace is the namespace id this counter belongs to
	Namespace int32 `parquet:"namespace,snappy"`

	// Edits is the edit count in this namespace for the snapshot
	Edits int64 `parquet:"edits,snappy"`

	// TotalEdits is the project-wide edit count across all namespaces
	TotalEdits int64 `parquet:"total_edits,snappy"`

	// TotalPages is the project-wide page count across all namespaces
	TotalPages int64 `parquet:"total_pages,snappy"`

	// TotalProjectPages is the page count in the project namespaces (4 and 5)
	TotalProjectPages int64 `parquet:"total_project_pages,snappy"`
}

// FlattenMatrix turns matrix records into flat export rows, one per
// namespace counter, preserving the matrix order.
func FlattenMatrix(matrix []*schema.ProjectMatrix, namespaces []int) []ProjectActivity {
	rows := make([]ProjectActivity, 0, len(matrix)*len(namespaces))
	for _, m := range matrix {
		for _, ns := range namespaces {
			rows = append(rows, ProjectActivity{
				ProjectID:         m.ProjectID,
				Title:             m.Title,
				Created:           m.Created,
				Namespace:         int32(ns),
				Edits:             m.Namespaces[ns],
				TotalEdits:        m.TotalEdits,
				TotalPages:        m.TotalPages,
				TotalProjectPages: m.TotalProjectPages,
			})
		}
	}
	return rows
}

// WriteProjectActivityParquet writes a slice of ProjectActivity rows to a
// Parquet file.
func WriteProjectActivityParquet(data []ProjectActivity, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is automatically derived from the ProjectActivity struct tags
	writer := parquet.NewGenericWriter[ProjectActivity](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}
