package codesync

// Dispatcher routes outbound events to registered callbacks.
type Dispatcher struct {
	onJoined    func(JoinedEvent)
	onJoinError func(JoinErrorEvent)
	onError     func(error)
}

func (d *Dispatcher) SetOnJoined(fn func(JoinedEvent))       { d.onJoined = fn }
func (d *Dispatcher) SetOnJoinError(fn func(JoinErrorEvent)) { d.onJoinError = fn }
func (d *Dispatcher) SetOnError(fn func(error))              { d.onError = fn }

func (d *Dispatcher) Dispatch(out Outbound) {
	if out.Type == outboundError && out.Error != nil {
		d.fireError(FromProtocolError(out.Error))
		return
	}
	switch out.Event {
	case eventJoinAccepted:
		if d.onJoined == nil {
			return
		}
		var ev JoinedEvent
		if len(out.Data) > 0 {
			if err := UnmarshalData(out.Data, &ev); err != nil {
				d.fireError(WrapError(ErrorSerialization, "failed to unmarshal join-accepted event", err))
				return
			}
		}
		d.onJoined(ev)
	case eventJoinError:
		if d.onJoinError == nil {
			return
		}
		ev := JoinErrorEvent{Code: ErrorJoinRejected}
		if len(out.Data) > 0 {
			if err := UnmarshalData(out.Data, &ev); err != nil {
				d.fireError(WrapError(ErrorSerialization, "failed to unmarshal join-error event", err))
				return
			}
		}
		d.onJoinError(ev)
	case eventUsernameExists:
		if d.onJoinError == nil {
			return
		}
		d.onJoinError(JoinErrorEvent{Code: ErrorUsernameExists, Reason: usernameExistsReason})
	}
}

func (d *Dispatcher) fireError(err error) {
	if d.onError != nil && err != nil {
		d.onError(err)
	}
}
