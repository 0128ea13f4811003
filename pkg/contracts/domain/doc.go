// Package domain holds the data contracts shared by the dataset loader, the
// metric engine, the dashboard service and the presentation layer.
package domain
