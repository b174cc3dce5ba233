package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"sgas/internal/entitymodel"
	"sgas/internal/entitymodel/sqlbundle"
	"sgas/pkg/domain"
)

func newEntitiesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "entities",
		Short: "List the catalog entities and their routes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printEntities(cmd.OutOrStdout(), entitymodel.Catalog())
			return nil
		},
	}
}

func printEntities(w io.Writer, c *domain.Catalog) {
	name := color.New(color.Bold)
	route := color.New(color.FgCyan)
	lookup := color.New(color.FgYellow)
	for _, e := range c.Entities() {
		line := fmt.Sprintf("%-34s %s", name.Sprint(e.Type), route.Sprint("/api/"+e.Route))
		if e.Lookup {
			line += " " + lookup.Sprint("(lookup)")
		}
		var guarded []string
		for _, ref := range c.ReferencedBy(e.Type) {
			if ref.Relation.Restricts() {
				guarded = append(guarded, string(ref.Source))
			}
		}
		if len(guarded) > 0 {
			line += " restricted by " + strings.Join(guarded, ", ")
		}
		_, _ = fmt.Fprintln(w, line)
	}
}

func newCatalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and export the entity catalog",
	}
	cmd.AddCommand(newCatalogCheckCommand(), newCatalogExportCommand(), newCatalogDiffCommand())
	return cmd
}

func newCatalogCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the catalog declarations and derived artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkCatalog(entitymodel.Entities()); err != nil {
				return codeError(1, "%s", err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("catalog check: OK"))
			return nil
		},
	}
}

// checkCatalog rebuilds the catalog from its declarations and renders every
// artifact derived from it.
func checkCatalog(entities []domain.Entity) error {
	c, err := domain.NewCatalog(entities...)
	if err != nil {
		return fmt.Errorf("catalog invalid: %w", err)
	}
	if _, err := entitymodel.OpenAPISpec(c); err != nil {
		return fmt.Errorf("render openapi: %w", err)
	}
	for name, ddl := range map[string]string{"sqlite": sqlbundle.SQLite(), "postgres": sqlbundle.Postgres()} {
		if len(sqlbundle.SplitStatements(ddl)) == 0 {
			return fmt.Errorf("%s ddl is empty", name)
		}
	}
	return nil
}

func newCatalogExportCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the catalog as JSON, OpenAPI or DDL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return exportCatalog(cmd.OutOrStdout(), entitymodel.Catalog(), format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json, openapi, sqlite or postgres")
	return cmd
}

func exportCatalog(w io.Writer, c *domain.Catalog, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entitymodel.Describe(c))
	case "openapi":
		spec, err := entitymodel.OpenAPISpec(c)
		if err != nil {
			return err
		}
		_, err = w.Write(spec)
		return err
	case "sqlite":
		_, err := io.WriteString(w, sqlbundle.SQLite())
		return err
	case "postgres":
		_, err := io.WriteString(w, sqlbundle.Postgres())
		return err
	default:
		return codeError(2, "unknown export format %q", format)
	}
}

func newCatalogDiffCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <baseline.json>",
		Short: "Report breaking changes against an exported catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0]) //nolint:gosec // baseline path is supplied by the operator
			if err != nil {
				return codeError(2, "open baseline: %s", err)
			}
			defer func() { _ = f.Close() }()
			return diffCatalog(cmd.OutOrStdout(), f, entitymodel.Catalog())
		},
	}
}

func diffCatalog(w io.Writer, baseline io.Reader, c *domain.Catalog) error {
	old, err := entitymodel.ReadDescription(baseline)
	if err != nil {
		return codeError(2, "%s", err)
	}
	issues := entitymodel.Breaking(old, entitymodel.Describe(c))
	if len(issues) == 0 {
		_, _ = fmt.Fprintln(w, color.GreenString("catalog compatible with baseline"))
		return nil
	}
	for _, issue := range issues {
		_, _ = fmt.Fprintln(w, color.RedString(issue))
	}
	return codeError(1, "%d breaking catalog change(s)", len(issues))
}
