// Package service provides application-level services orchestrating test
// administration, recall scoring, and user management over the store and
// generation layers.
package service
