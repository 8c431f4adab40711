// Package bundle packs and unpacks the public key bundle peers exchange out
// of band.
//
// Wire layout, all integers big-endian:
//
//	[keyIDLen:u8][keyID][createdAt:i64 unix seconds]
//	[encPubLen:u16][encPub][sigPubLen:u16][sigPub]
//
// Every field is length-prefixed, so a truncated or padded bundle is
// detected without outside metadata.
package bundle
