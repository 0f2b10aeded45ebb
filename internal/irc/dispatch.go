package irc

// dispatch routes one parsed message to its handler. Every Command has a
// case; unknown commands are logged and dropped. Errors are returned only
// for failures the caller must act on.
func (s *Session) dispatch(msg Message) error {
	switch msg.Kind() {
	case CommandJoin:
		return s.onJoin(msg)
	case CommandPing:
		return s.onPing(msg)
	case CommandPrivmsg:
		return s.onPrivmsg(msg)
	case CommandPart, CommandQuit:
		return s.onLeave(msg)
	case RplWelcome, RplYourHost, RplCreated:
		return s.onBanner(msg)
	case RplMyInfo, RplLuserClient, RplMotd, RplMotdStart, RplEndOfMotd, ErrNoMotd:
		return s.onServerInfo(msg)
	case RplNoTopic:
		return s.onNoTopic(msg)
	case RplTopic:
		return s.onTopic(msg)
	case RplNamReply:
		return s.onNames(msg)
	case RplEndOfNames:
		return s.onEndOfNames(msg)
	case ErrNicknameInUse:
		return s.onNicknameInUse(msg)
	case CommandUnknown:
		s.logger.Log("Ignored %s command from server, not implemented.", msg.Command)
		return nil
	default:
		s.logger.Warning("No handler for %s", msg.Command)
		return nil
	}
}
