// Package extract turns one mod archive into a staging tree that holds the
// game content subpath (Game/Content by default).
//
// Paks go straight to the packer tool. Zip, 7z and rar archives are
// decompressed in-process; when they carry paks instead of loose content,
// every pak found is unpacked with the tool and folded into the staging
// root.
package extract
