package statistics

import "hash/fnv"

var channelPalette = []string{
	"#4E79A7", "#F28E2B", "#E15759", "#76B7B2",
	"#59A14F", "#EDC948", "#B07AA1", "#FF9DA7",
	"#9C755F", "#BAB0AC", "#1F77B4", "#2CA02C",
}

// ChannelColor picks a stable chart colour for a channel name.
func ChannelColor(name string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return channelPalette[h.Sum32()%uint32(len(channelPalette))]
}
