// Package model implements the pointer-graph record codecs of the model
// format: bones, vertex formats and buffers, submeshes, meshes, materials,
// animations and the Model root node.
//
// Every record has a Read function that decodes it at the cursor position,
// following child addresses, and a Write method that appends it at the end of
// the file and returns its address:
//
//	m, err := model.ReadModel(c)            // c positioned at the root
//	addr, err := m.Write(c, model.WriteOptions{})
//
// Writers rely on the reserve, emit and backpatch helpers of package record,
// so the cursor must have its root fixed before the first Write.
package model
