package fit

// crcTable drives the FIT 16-bit checksum, one lookup per nibble. The
// table contents and the low-nibble-first update order are mandated by
// the file format; devices reject files computed any other way.
var crcTable = [16]uint16{
	0x0000, 0xCC01, 0xD801, 0x1400, 0xF001, 0x3C00, 0x2800, 0xE401,
	0xA001, 0x6C00, 0x7800, 0xB401, 0x5000, 0x9C01, 0x8801, 0x4400,
}

// Checksum computes the FIT checksum over data. The empty slice yields 0.
func Checksum(data []byte) uint16 {
	var crc uint16
	for _, b := range data {
		crc = crcNibble(crc, b&0x0F)
		crc = crcNibble(crc, (b>>4)&0x0F)
	}
	return crc
}

func crcNibble(crc uint16, nibble byte) uint16 {
	tmp := crcTable[crc&0x0F]
	crc = (crc >> 4) & 0x0FFF
	return crc ^ tmp ^ crcTable[nibble]
}
