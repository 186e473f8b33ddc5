// Package zap provides the production implementation of log.Logger backed
// by go.uber.org/zap.
package zap
