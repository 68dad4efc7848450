package db

import (
  "context"
  "fmt"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/yungbote/mindjourney-backend/internal/logger"
  "github.com/yungbote/mindjourney-backend/internal/types"
)

// emotionWheelData is the full feeling wheel: 7 primaries, each secondary
// with its tertiary leaves. The flattened set defines every legal emotion
// path.
var emotionWheelData = map[string]map[string][]string{
  "Happy": {
    "Playful":    {"Aroused", "Cheeky"},
    "Content":    {"Free", "Joyful"},
    "Interested": {"Curious", "Inquisitive"},
    "Proud":      {"Successful", "Confident"},
    "Accepted":   {"Respected", "Valued"},
    "Powerful":   {"Courageous", "Creative"},
    "Peaceful":   {"Loving", "Thankful"},
    "Trusting":   {"Sensitive", "Intimate"},
    "Optimistic": {"Hopeful", "Inspired"},
  },
  "Sad": {
    "Lonely":     {"Isolated", "Abandoned"},
    "Vulnerable": {"Victimized", "Fragile"},
    "Despair":    {"Grief", "Powerless"},
    "Guilty":     {"Ashamed", "Remorseful"},
    "Depressed":  {"Inferior", "Empty"},
    "Hurt":       {"Disappointed", "Embarrassed"},
  },
  "Angry": {
    "Let Down":   {"Betrayed", "Resentful"},
    "Humiliated": {"Disrespected", "Ridiculed"},
    "Bitter":     {"Indignant", "Violated"},
    "Mad":        {"Furious", "Jealous"},
    "Aggressive": {"Provoked", "Hostile"},
    "Frustrated": {"Infuriated", "Annoyed"},
    "Distant":    {"Withdrawn", "Numb"},
    "Critical":   {"Skeptical", "Dismissive"},
  },
  "Fearful": {
    "Scared":     {"Helpless", "Frightened"},
    "Anxious":    {"Overwhelmed", "Worried"},
    "Insecure":   {"Inadequate", "Inferior"},
    "Weak":       {"Worthless", "Insignificant"},
    "Rejected":   {"Excluded", "Persecuted"},
    "Threatened": {"Nervous", "Exposed"},
  },
  "Surprised": {
    "Startled": {"Shocked", "Dismayed"},
    "Confused": {"Disillusioned", "Perplexed"},
    "Amazed":   {"Astonished", "Awe"},
    "Excited":  {"Eager", "Energetic"},
  },
  "Disgusted": {
    "Disapproval":  {"Judgmental", "Embarrassed"},
    "Disappointed": {"Appalled", "Revolted"},
    "Awful":        {"Nauseated", "Detestable"},
    "Repelled":     {"Horrified", "Hesitant"},
  },
  "Bad": {
    "Bored":    {"Indifferent", "Apathetic"},
    "Busy":     {"Pressured", "Rushed"},
    "Stressed": {"Overwhelmed", "Out of Control"},
    "Tired":    {"Sleepy", "Unfocused"},
  },
}

type seedQuestion struct {
  index    int
  text     string
  a        string
  b        string
  c        string
  d        string
  expected string
}

// reflectionQuestionData holds the shipped question sets. Option C is the
// expected answer in every set by design; sets for the remaining emotion
// paths are added to the catalog incrementally.
var reflectionQuestionData = map[string][]seedQuestion{
  "Sad.Lonely.Isolated": {
    {1, "Lately, have you felt cut off from the people around you?",
      "No, I feel well connected", "Only at work or school",
      "Yes, I feel separated from almost everyone", "I have not thought about it", "C"},
    {2, "When you have free time, what do you usually do?",
      "Meet friends or family", "Call someone to talk",
      "Stay by myself even when I wish I had company", "Work on hobbies with others", "C"},
    {3, "How easy is it for you to reach out to someone right now?",
      "Very easy, I do it all the time", "Fairly easy",
      "It feels very hard, like nobody would respond", "I have never needed to", "C"},
    {4, "Do you feel like people around you understand what you are going through?",
      "Yes, completely", "Mostly",
      "No, I feel like nobody really sees me", "I do not share my feelings", "C"},
    {5, "How would you describe your evenings this past week?",
      "Full of plans and people", "Quiet but comfortable",
      "Empty, like I am on my own island", "Too busy to notice", "C"},
  },
  "Sad.Lonely.Abandoned": {
    {1, "Do you feel like someone important has left you behind?",
      "No, everyone is still around", "Maybe, I am not sure",
      "Yes, someone I counted on is gone", "I prefer being on my own", "C"},
    {2, "When you think about the people closest to you, what comes up?",
      "Warmth and gratitude", "Mild worry",
      "A sense that they would leave too", "Nothing in particular", "C"},
    {3, "How do you react when plans get cancelled on you?",
      "It does not bother me", "Slight disappointment",
      "It confirms that people give up on me", "I usually cancel first", "C"},
    {4, "Do you find yourself replaying moments where someone walked away?",
      "Never", "Rarely",
      "Yes, those moments keep coming back", "I do not remember such moments", "C"},
    {5, "What do you expect from new relationships?",
      "Closeness and trust", "A slow start",
      "That sooner or later I will be left again", "I do not think about it", "C"},
  },
  "Happy.Proud.Confident": {
    {1, "Lately, do you feel sure of your own abilities?",
      "No, I doubt myself", "Only sometimes",
      "Yes, I trust what I am capable of", "I do not think about it much", "C"},
    {2, "When you face a new challenge, what do you usually feel?",
      "Afraid of failing", "Nothing in particular",
      "Enthusiastic and sure I can handle it", "I tend to avoid it", "C"},
    {3, "How do you look at what you have achieved so far?",
      "I feel I have achieved nothing", "Decent, but full of gaps",
      "I am proud of my journey and my wins", "I rarely reflect on it", "C"},
    {4, "When someone praises your work, how do you respond?",
      "I assume they are just being polite", "I feel awkward",
      "I accept it, because I earned it", "I change the subject", "C"},
    {5, "How do you speak to yourself after a mistake?",
      "I tear myself down", "I try to forget it quickly",
      "I remind myself that I can learn and improve", "I blame circumstances", "C"},
  },
  "Fearful.Anxious.Overwhelmed": {
    {1, "How does your to-do list feel right now?",
      "Completely manageable", "A little long",
      "Like a wave that is about to crash over me", "I do not keep one", "C"},
    {2, "When you wake up, what is the first thing you feel?",
      "Rested and ready", "Neutral",
      "A knot in my stomach about everything ahead", "I sleep through alarms", "C"},
    {3, "Can you focus on one task at a time?",
      "Yes, easily", "Usually",
      "No, my mind jumps between everything at once", "I only ever do one thing", "C"},
    {4, "How do your body and breathing feel during a busy day?",
      "Calm and steady", "Slightly tense",
      "Tight chest, short breaths, racing heart", "I have not noticed", "C"},
    {5, "When someone asks for one more favor, what happens inside?",
      "Happy to help", "Mild reluctance",
      "Panic, because I am already past my limit", "I say no without thinking", "C"},
  },
}

// Seeder fills the reference tables (emotion wheel, reflection questions)
// when they are empty. Safe to run on every startup.
type Seeder struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewSeeder(gdb *gorm.DB, log *logger.Logger) *Seeder {
  return &Seeder{db: gdb, log: log.With("service", "Seeder")}
}

func (s *Seeder) SeedAll(ctx context.Context) error {
  if err := s.seedEmotionWheel(ctx); err != nil {
    return err
  }
  return s.seedReflectionQuestions(ctx)
}

func (s *Seeder) seedEmotionWheel(ctx context.Context) error {
  var count int64
  if err := s.db.WithContext(ctx).Model(&types.EmotionWheel{}).Count(&count).Error; err != nil {
    return err
  }
  if count > 0 {
    s.log.Debug("Emotion wheel already seeded", "rows", count)
    return nil
  }
  var records []*types.EmotionWheel
  for primary, secondaries := range emotionWheelData {
    for secondary, tertiaries := range secondaries {
      for _, tertiary := range tertiaries {
        records = append(records, &types.EmotionWheel{
          ID:               uuid.New(),
          PrimaryEmotion:   primary,
          SecondaryEmotion: secondary,
          TertiaryEmotion:  tertiary,
          Description:      fmt.Sprintf("%s > %s > %s", primary, secondary, tertiary),
        })
      }
    }
  }
  if err := s.db.WithContext(ctx).Create(&records).Error; err != nil {
    return fmt.Errorf("seed emotion wheel: %w", err)
  }
  s.log.Info("Seeded emotion wheel", "rows", len(records))
  return nil
}

func (s *Seeder) seedReflectionQuestions(ctx context.Context) error {
  var count int64
  if err := s.db.WithContext(ctx).Model(&types.ReflectionQuestion{}).Count(&count).Error; err != nil {
    return err
  }
  if count > 0 {
    s.log.Debug("Reflection questions already seeded", "rows", count)
    return nil
  }
  var records []*types.ReflectionQuestion
  for emotionKey, questions := range reflectionQuestionData {
    for _, q := range questions {
      records = append(records, &types.ReflectionQuestion{
        ID:             uuid.New(),
        EmotionKey:     emotionKey,
        QuestionIndex:  q.index,
        QuestionText:   q.text,
        OptionA:        q.a,
        OptionB:        q.b,
        OptionC:        q.c,
        OptionD:        q.d,
        ExpectedAnswer: q.expected,
      })
    }
  }
  if err := s.db.WithContext(ctx).Create(&records).Error; err != nil {
    return fmt.Errorf("seed reflection questions: %w", err)
  }
  s.log.Info("Seeded reflection questions", "rows", len(records))
  return nil
}
