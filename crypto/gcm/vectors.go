package gcm

import "github.com/vocdoni/gnark-aesgcm/types"

// Vector is a known answer test case for AES-128-GCM with a 96-bit IV.
type Vector struct {
	Name       string
	Key        types.HexBytes
	IV         types.HexBytes
	PlainText  types.HexBytes
	AAD        types.HexBytes
	CipherText types.HexBytes
	Tag        types.HexBytes
}

// NISTVectors are the AES-128 test cases 1 to 4 of the GCM submission
// document, plus the zero key case with a zero AAD block.
var NISTVectors = []Vector{
	{
		Name:       "nist-1",
		Key:        types.HexStringToHexBytes("00000000000000000000000000000000"),
		IV:         types.HexStringToHexBytes("000000000000000000000000"),
		PlainText:  types.HexBytes{},
		AAD:        types.HexBytes{},
		CipherText: types.HexBytes{},
		Tag:        types.HexStringToHexBytes("58e2fccefa7e3061367f1d57a4e7455a"),
	},
	{
		Name:       "nist-2",
		Key:        types.HexStringToHexBytes("00000000000000000000000000000000"),
		IV:         types.HexStringToHexBytes("000000000000000000000000"),
		PlainText:  types.HexStringToHexBytes("00000000000000000000000000000000"),
		AAD:        types.HexBytes{},
		CipherText: types.HexStringToHexBytes("0388dace60b6a392f328c2b971b2fe78"),
		Tag:        types.HexStringToHexBytes("ab6e47d42cec13bdf53a67b21257bddf"),
	},
	{
		Name:       "zero-aad",
		Key:        types.HexStringToHexBytes("00000000000000000000000000000000"),
		IV:         types.HexStringToHexBytes("000000000000000000000000"),
		PlainText:  types.HexStringToHexBytes("00000000000000000000000000000000"),
		AAD:        types.HexStringToHexBytes("00000000000000000000000000000000"),
		CipherText: types.HexStringToHexBytes("0388dace60b6a392f328c2b971b2fe78"),
		Tag:        types.HexStringToHexBytes("d24e503a1bb037071c71b35d987b8657"),
	},
	{
		Name: "nist-3",
		Key:  types.HexStringToHexBytes("feffe9928665731c6d6a8f9467308308"),
		IV:   types.HexStringToHexBytes("cafebabefacedbaddecaf888"),
		PlainText: types.HexStringToHexBytes("d9313225f88406e5a55909c5aff5269a" +
			"86a7a9531534f7da2e4c303d8a318a72" +
			"1c3c0c95956809532fcf0e2449a6b525" +
			"b16aedf5aa0de657ba637b391aafd255"),
		AAD: types.HexBytes{},
		CipherText: types.HexStringToHexBytes("42831ec2217774244b7221b784d0d49c" +
			"e3aa212f2c02a4e035c17e2329aca12e" +
			"21d514b25466931c7d8f6a5aac84aa05" +
			"1ba30b396a0aac973d58e091473f5985"),
		Tag: types.HexStringToHexBytes("4d5c2af327cd64a62cf35abd2ba6fab4"),
	},
	{
		Name: "nist-4",
		Key:  types.HexStringToHexBytes("feffe9928665731c6d6a8f9467308308"),
		IV:   types.HexStringToHexBytes("cafebabefacedbaddecaf888"),
		PlainText: types.HexStringToHexBytes("d9313225f88406e5a55909c5aff5269a" +
			"86a7a9531534f7da2e4c303d8a318a72" +
			"1c3c0c95956809532fcf0e2449a6b525" +
			"b16aedf5aa0de657ba637b39"),
		AAD: types.HexStringToHexBytes("feedfacedeadbeeffeedfacedeadbeef" +
			"abaddad2"),
		CipherText: types.HexStringToHexBytes("42831ec2217774244b7221b784d0d49c" +
			"e3aa212f2c02a4e035c17e2329aca12e" +
			"21d514b25466931c7d8f6a5aac84aa05" +
			"1ba30b396a0aac973d58e091"),
		Tag: types.HexStringToHexBytes("5bc94fbc3221a5db94fae95ae7121a47"),
	},
}
