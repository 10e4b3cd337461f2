package engine

import "go.uber.org/zap"

// zapFields is a small helper so each engine_*.go handler doesn't repeat the same
// zap.String/zap.Int32 pair for its "row touched" log line.
func zapFields(table string, id int32) []zap.Field {
	return []zap.Field{zap.String("table", table), zap.Int32("id", id)}
}
