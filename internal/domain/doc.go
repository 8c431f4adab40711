// Package domain defines core data models, contracts and error values shared
// across slinger. It contains plain types (wire/state), interfaces and
// sentinel errors only.
package domain
