// Package workflow loads ordered command steps from YAML or JSON files and runs
// them one after another, each under the status indicator.
package workflow
