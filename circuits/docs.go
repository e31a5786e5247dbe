// Package circuits contains the gnark circuits that prove AES-128-GCM
// encryption and the shared pieces they need: the artifacts cache and the
// serialization helpers.
//
// The circuits are layered from the bit level up:
//
//	bits      byte decomposition, xor, select and mux over boolean wires
//	gf256     multiplication by constants in the AES field
//	aes       key schedule and block encryption, S-box as a lookup table
//	gctr      32-bit counter increment and keystream xor
//	ghash     GF(2^128) multiplication, the GHASH fold and its key commitment
//	aesgcm    the complete authenticated encryption and its top circuit
//
// Every circuit is fully unrolled for its compile time lengths, so each
// distinct (aad length, plaintext length) pair is a distinct constraint
// system. The prover package compiles them once and keeps the constraint
// system and groth16 keys in the cache under BaseDir:
//
//	+------------+
//	|  AES-GCM   |  BN254         <- native
//	|  Circuit   |  key, pt secret; iv, aad, ct, tag public
//	+------------+
//
//	+------------+
//	|   GHASH    |  BN254         <- native
//	|    Fold    |  fixed number of blocks per proof
//	+------------+  H secret; MiMC(H), acc in/out, blocks, tags public
//
// Witnesses are built from aesgcm.Inputs, which encodes as JSON with hex
// strings and carries the ciphertext and tag of the native implementation.
package circuits
