// Package board provides the persistence layer for canvas arrangements.
//
// A Board is the serialized form of a canvas: a named, identified list of
// node records with positions. Boards round-trip losslessly between the
// live canvas representation and JSON, and can be stored either as files
// on disk (FileStore) or in a MongoDB collection (MongoStore) behind the
// common Store interface.
//
// Typical usage:
//
//	store, _ := board.NewFileStore(dir)
//	b := board.New("moodboard")
//	b.FromManager(mgr)
//	store.Save(ctx, b)
//
//	loaded, _ := store.Load(ctx, b.ID)
//	mgr2, _ := loaded.ToManager()
package board
