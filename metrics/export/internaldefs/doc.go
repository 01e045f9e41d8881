// Package internaldefs holds the shared metric name/help definitions and
// bucket helpers used by the Prometheus and OTel exporters. It exists so the
// two exporters expose identical series without duplicating the tables.
package internaldefs
