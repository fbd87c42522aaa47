// Package domain defines the core business entities of the competitive
// landscape service: jobs, analyses, competitors, and research aspects.
package domain
