package mock

//go:generate mockgen -package mock -destination blockdevice.go github.com/hashgraph/hedera-services-sub126/pkg/blockdevice BlockDevice
//go:generate mockgen -package mock -destination longlist.go github.com/hashgraph/hedera-services-sub126/pkg/longlist Chunk,ChunkAllocator
//go:generate mockgen -package mock -destination util.go github.com/hashgraph/hedera-services-sub126/pkg/util ErrorLogger
//go:generate mockgen -package mock -destination clock.go github.com/hashgraph/hedera-services-sub126/pkg/clock Clock,Ticker
//go:generate mockgen -package mock -destination prometheus.go -mock_names Gatherer=MockPrometheusGatherer github.com/prometheus/client_golang/prometheus Gatherer
