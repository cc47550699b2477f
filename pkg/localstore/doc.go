// Package localstore is an embedded vector database backend on SQLite
// (modernc.org/sqlite, no cgo). It serves the "local" connection mode,
// where the configuration names a filesystem path instead of a server.
//
// Collections and points live in two tables. Vectors are stored as
// little-endian float32 BLOBs and searched by exhaustive scan, scoring
// the same way the Qdrant server does:
//
//	Cosine  cosine similarity, higher is better
//	Dot     dot product, higher is better
//	Euclid  L2 distance, lower is better
//
// Failures are reported with the vectordb category sentinels so
// vectordb.Translate classifies them exactly like server errors.
package localstore
