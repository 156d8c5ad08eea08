// Package scene is the in-memory host the aurora tools operate on. It keeps
// a registry of objects and the data blocks they use (curves, meshes,
// textures, materials) with user counts, a linked collection of visible
// objects, selection state, and per-object string tags.
//
// Data blocks are shared by reference and counted: an object holds one user
// of its data, a displace modifier one user of its texture, and a mesh one
// user of each material slot. Removing an object releases those users but
// never removes the data blocks themselves; callers decide whether an
// unreferenced block should go.
package scene
