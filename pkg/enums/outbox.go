package enums

// OutboxAggregateType names the aggregate a domain event refers to.
type OutboxAggregateType string

const (
	AggregateOrder OutboxAggregateType = "order"
)

// String implements fmt.Stringer.
func (o OutboxAggregateType) String() string {
	return string(o)
}
