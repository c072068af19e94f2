package slackbot

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"jobtracker/internal/analytics"
	"jobtracker/internal/config"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"
)

// Bot holds what slash commands need to answer.
type Bot struct {
	cfg   config.Config
	db    *sql.DB
	cache *analytics.Cache
	api   *slack.Client
}

func StartSlackBot(cfg config.Config, db *sql.DB, cache *analytics.Cache, api *slack.Client) error {
	b := &Bot{cfg: cfg, db: db, cache: cache, api: api}
	client := socketmode.New(api)

	go func() {
		for evt := range client.Events {
			switch evt.Type {
			case socketmode.EventTypeConnecting:
				log.Println("Connecting to Slack with Socket Mode...")
			case socketmode.EventTypeConnectionError:
				log.Println("Slack connection failed, retrying")
			case socketmode.EventTypeSlashCommand:
				client.Ack(*evt.Request)
				cmd, ok := evt.Data.(slack.SlashCommand)
				if !ok {
					continue
				}
				log.Printf("Slash command received: %s from user=%s channel=%s", cmd.Command, cmd.UserID, cmd.ChannelID)
				go b.handleSlashCommand(cmd)
			case socketmode.EventTypeEventsAPI:
				client.Ack(*evt.Request)
				eventsAPIEvent, ok := evt.Data.(slackevents.EventsAPIEvent)
				if !ok {
					continue
				}
				go b.handleEventsAPI(eventsAPIEvent)
			}
		}
	}()

	log.Println("Slack bot connected via Socket Mode")
	return client.Run()
}

func (b *Bot) handleSlashCommand(cmd slack.SlashCommand) {
	if cmd.Command == cmdInsights {
		postEphemeral(b.api, cmd, "Generating insights...")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	rep := b.reply(ctx, cmd, time.Now())
	if rep.FilePath != "" {
		b.upload(cmd, rep)
		return
	}
	if rep.Text != "" {
		postEphemeral(b.api, cmd, rep.Text)
	}
}

func (b *Bot) upload(cmd slack.SlashCommand, rep reply) {
	fi, err := os.Stat(rep.FilePath)
	if err != nil {
		log.Printf("Error stating export file: %v", err)
		postEphemeral(b.api, cmd, fmt.Sprintf("Error reading generated file: %v", err))
		return
	}
	if fi.Size() <= 0 {
		postEphemeral(b.api, cmd, "Error uploading export: generated file is empty.")
		return
	}
	_, err = b.api.UploadFileV2(slack.UploadFileV2Parameters{
		File:           rep.FilePath,
		FileSize:       int(fi.Size()),
		Filename:       filepath.Base(rep.FilePath),
		Channel:        cmd.ChannelID,
		Title:          rep.FileTitle,
		InitialComment: rep.Text,
	})
	if err != nil {
		log.Printf("Error uploading export file: %v", err)
		postEphemeral(b.api, cmd, "Error uploading export to channel. Check bot permissions.")
		return
	}
	log.Printf("export uploaded file=%s channel=%s", rep.FilePath, cmd.ChannelID)
}

func (b *Bot) handleEventsAPI(event slackevents.EventsAPIEvent) {
	if event.Type != slackevents.CallbackEvent {
		return
	}
	switch ev := event.InnerEvent.Data.(type) {
	case *slackevents.MemberJoinedChannelEvent:
		if b.cfg.ReportChannelID != "" && ev.Channel != b.cfg.ReportChannelID {
			return
		}
		log.Printf("member-joined user=%s channel=%s", ev.User, ev.Channel)
		_, err := b.api.PostEphemeral(ev.Channel, ev.User, slack.MsgOptionText(welcomeText(b.cfg), false))
		if err != nil {
			log.Printf("Error posting welcome message: %v", err)
		}
	}
}

func welcomeText(cfg config.Config) string {
	return fmt.Sprintf("Welcome! This channel tracks %s.\n\n"+
		"- `/job-stats` for the dashboard\n"+
		"- `/job-goals` for goal progress\n"+
		"- `/job-help` for every command", cfg.OwnerName)
}

func postEphemeral(api *slack.Client, cmd slack.SlashCommand, text string) {
	_, err := api.PostEphemeral(cmd.ChannelID, cmd.UserID, slack.MsgOptionText(text, false))
	if err != nil {
		log.Printf("Error posting ephemeral: %v", err)
	}
}
