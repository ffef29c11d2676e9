package dialog

// MediaRelay records one leg's half of an RTP bridge: the locally
// bound ports and the remote endpoint read from the peer's SDP offer
// or answer.
type MediaRelay struct {
	LocalRTPPort  int
	LocalRTCPPort int

	RemoteRTPAddress string
	RemoteRTPPort    int

	CodecInfo []string

	BytesSent       uint64
	BytesReceived   uint64
	PacketsSent     uint64
	PacketsReceived uint64
}

func newMediaRelay(localRTPPort int, remoteAddr string, remotePort int, codecs []string) *MediaRelay {
	return &MediaRelay{
		LocalRTPPort:     localRTPPort,
		LocalRTCPPort:    localRTPPort + 1,
		RemoteRTPAddress: remoteAddr,
		RemoteRTPPort:    remotePort,
		CodecInfo:        codecs,
	}
}
